package segment

import "testing"

func feed(t *testing.T, vocab Vocabulary, lines ...string) []ParsedQuestion {
	t.Helper()
	s := New(vocab)
	for _, ln := range lines {
		s.FeedLine(ln)
	}
	return s.Finish()
}

func TestNumberedQuestionWithDelimitedOptions(t *testing.T) {
	qs := feed(t, DefaultVocabulary(),
		"3. O'simliklarga xos bo'lmagan organizmlar guruhini aniqlang?",
		"A) bakteriyalar B) viruslar C) sabzovotlar D) hayvonlar",
	)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	q := qs[0]
	if q.Number != 3 {
		t.Errorf("Number = %d, want 3", q.Number)
	}
	if len(q.Options) != 4 {
		t.Fatalf("got %d options, want 4", len(q.Options))
	}
	wantLabels := []string{"A", "B", "C", "D"}
	wantTexts := []string{"bakteriyalar", "viruslar", "sabzovotlar", "hayvonlar"}
	for i, opt := range q.Options {
		if opt.Label != wantLabels[i] || opt.Text != wantTexts[i] {
			t.Errorf("option %d = %q %q, want %q %q", i, opt.Label, opt.Text, wantLabels[i], wantTexts[i])
		}
	}
	if len(q.Defects) != 0 {
		t.Errorf("unexpected defects: %v", q.Defects)
	}
}

func TestVariantBankAbsorbedIntoOpenQuestion(t *testing.T) {
	qs := feed(t, BiologyVocabulary(),
		"5. Quyidagi atamalarni mos guruhlarga ajratib, to'g'ri javob qatorini aniqlang",
		"1. eukariot",
		"2. prokariot",
		"A) 1a,2b B) 1b,2a C) 1a,2a D) 1b,2b",
	)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	q := qs[0]
	if q.Number != 5 {
		t.Errorf("Number = %d, want 5", q.Number)
	}
	if len(q.VariantBank) != 2 {
		t.Fatalf("VariantBank = %v, want 2 entries", q.VariantBank)
	}
	if q.VariantBank[0] != "1. eukariot" || q.VariantBank[1] != "2. prokariot" {
		t.Errorf("VariantBank = %v", q.VariantBank)
	}
	if len(q.Options) != 4 {
		t.Errorf("got %d options, want 4", len(q.Options))
	}
}

func TestBankRestartAtOneDoesNotOpenNewQuestion(t *testing.T) {
	// local numbering restarting at 1 inside an open question is a bank
	// entry even when a later numbered line starts the next real question
	qs := feed(t, BiologyVocabulary(),
		"5. Berilgan organizmlarni oziqlanish turiga ko'ra guruhlarga ajratib belgilang",
		"1. avtotrof organizmlar 2. geterotrof organizmlar",
		"6. Fotosintez jarayoni qaysi organoidda boradi?",
		"A) mitoxondriya B) xloroplast C) ribosoma D) lizosoma",
	)
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}
	if qs[0].Number != 5 || len(qs[0].VariantBank) != 1 {
		t.Errorf("first question: number=%d bank=%v", qs[0].Number, qs[0].VariantBank)
	}
	if len(qs[0].Options) != 0 || len(qs[0].Defects) == 0 {
		t.Errorf("first question should be incomplete: options=%d defects=%v",
			len(qs[0].Options), qs[0].Defects)
	}
	if qs[1].Number != 6 || len(qs[1].Options) != 4 {
		t.Errorf("second question: number=%d options=%d", qs[1].Number, len(qs[1].Options))
	}
}

func TestDenseOptionLine(t *testing.T) {
	qs := feed(t, DefaultVocabulary(),
		"4. Mos keluvchi javob qatorini aniqlang",
		"A 2,3,4 B 5,6,7 C 8,9,10 D 11,12,13",
	)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	q := qs[0]
	wantTexts := []string{"2,3,4", "5,6,7", "8,9,10", "11,12,13"}
	if len(q.Options) != len(wantTexts) {
		t.Fatalf("got %d options, want %d", len(q.Options), len(wantTexts))
	}
	for i, opt := range q.Options {
		if opt.Text != wantTexts[i] {
			t.Errorf("option %s = %q, want %q", opt.Label, opt.Text, wantTexts[i])
		}
	}
}

func TestDenseOptionLineWithoutCommas(t *testing.T) {
	qs := feed(t, DefaultVocabulary(),
		"4. Mos keluvchi javob qatorini aniqlang",
		"A 23 B 47 C 56 D 78",
	)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	q := qs[0]
	wantTexts := []string{"23", "47", "56", "78"}
	if len(q.Options) != len(wantTexts) {
		t.Fatalf("got %d options %v, want %d", len(q.Options), q.Options, len(wantTexts))
	}
	for i, opt := range q.Options {
		if opt.Text != wantTexts[i] {
			t.Errorf("option %s = %q, want %q", opt.Label, opt.Text, wantTexts[i])
		}
	}
	if len(q.Defects) != 0 {
		t.Errorf("unexpected defects: %v", q.Defects)
	}
}

func TestIncompleteQuestionEmittedWithDefects(t *testing.T) {
	qs := feed(t, DefaultVocabulary(),
		"7. Qaysi modda suvda kislota hosil qiladi?",
		"A) HCl B) NaOH",
	)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	q := qs[0]
	if len(q.Options) != 2 {
		t.Fatalf("got %d options, want 2", len(q.Options))
	}
	if q.Complete() {
		t.Error("question with 2 options reported complete")
	}
	if len(q.Defects) == 0 {
		t.Error("want option-count defect, got none")
	}
}

func TestContinuationLinesJoinQuestionText(t *testing.T) {
	qs := feed(t, DefaultVocabulary(),
		"1. Quyidagi jarayonlar ichidan fizik hodisalarga",
		"tegishli bo'lganlarini toping",
		"A) erish B) yonish C) qaynash D) chirish",
	)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	want := "Quyidagi jarayonlar ichidan fizik hodisalarga tegishli bo'lganlarini toping"
	if qs[0].Text != want {
		t.Errorf("Text = %q, want %q", qs[0].Text, want)
	}
}

func TestProseOutsideQuestionsIgnored(t *testing.T) {
	qs := feed(t, DefaultVocabulary(),
		"Kimyo fanidan test savollari",
		"9-sinf uchun",
		"---",
		"1. Kimyoviy elementlar davriy jadvalda nechta guruhga bo'linadi?",
		"A) 6 B) 7 C) 8 D) 9",
	)
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	if qs[0].Number != 1 {
		t.Errorf("Number = %d, want 1", qs[0].Number)
	}
}

func TestFeedTableAttachesToOpenQuestion(t *testing.T) {
	s := New(DefaultVocabulary())
	s.FeedTable([][]string{{"lost"}}) // no open question: dropped
	s.FeedLine("2. Jadvaldagi ma'lumotlar asosida to'g'ri javobni aniqlang")
	s.FeedTable([][]string{{"Element", "Massa"}, {"H", "1"}})
	s.FeedLine("A) 1 B) 2 C) 3 D) 4")
	qs := s.Finish()
	if len(qs) != 1 {
		t.Fatalf("got %d questions, want 1", len(qs))
	}
	if !qs[0].HasTable || len(qs[0].Table) != 2 {
		t.Errorf("table not attached: HasTable=%v rows=%d", qs[0].HasTable, len(qs[0].Table))
	}
}
