package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quizzler-app/quizzler-backend/models"
)

func cardIDs(cards []models.Flashcard) []uint {
	ids := make([]uint, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestOrderFlashcards(t *testing.T) {
	cards := []models.Flashcard{{ID: 1}, {ID: 2}, {ID: 3}}

	// Card 1 trả lời đúng 2 lần (-4), card 2 sai 1 lần (+1), card 3 chưa học (0).
	logs := []models.FlashcardLog{
		{FlashcardID: 1, WasCorrect: true},
		{FlashcardID: 1, WasCorrect: true},
		{FlashcardID: 2, WasCorrect: false},
	}

	ordered := OrderFlashcards(cards, logs)
	assert.Equal(t, []uint{2, 3, 1}, cardIDs(ordered))
}

func TestOrderFlashcardsEmptyLogs(t *testing.T) {
	cards := []models.Flashcard{{ID: 5}, {ID: 3}, {ID: 9}}

	// Không có log thì giữ nguyên thứ tự đầu vào.
	ordered := OrderFlashcards(cards, nil)
	assert.Equal(t, []uint{5, 3, 9}, cardIDs(ordered))
}

func TestOrderFlashcardsIgnoresForeignLogs(t *testing.T) {
	cards := []models.Flashcard{{ID: 1}, {ID: 2}}

	// Log của flashcard không thuộc bộ thẻ (đã xoá, bài khác) bị bỏ qua.
	logs := []models.FlashcardLog{
		{FlashcardID: 99, WasCorrect: false},
		{FlashcardID: 2, WasCorrect: false},
	}

	ordered := OrderFlashcards(cards, logs)
	assert.Equal(t, []uint{2, 1}, cardIDs(ordered))
}

func TestOrderFlashcardsDoesNotMutateInput(t *testing.T) {
	cards := []models.Flashcard{{ID: 1}, {ID: 2}}
	logs := []models.FlashcardLog{{FlashcardID: 2, WasCorrect: false}}

	_ = OrderFlashcards(cards, logs)
	assert.Equal(t, []uint{1, 2}, cardIDs(cards))
}

func TestOrderFlashcardsStableOnEqualRatings(t *testing.T) {
	cards := []models.Flashcard{{ID: 1}, {ID: 2}, {ID: 3}}

	// Card 1 và 3 cùng rating +1, thứ tự tương đối giữ nguyên.
	logs := []models.FlashcardLog{
		{FlashcardID: 1, WasCorrect: false},
		{FlashcardID: 3, WasCorrect: false},
		{FlashcardID: 2, WasCorrect: true},
	}

	ordered := OrderFlashcards(cards, logs)
	assert.Equal(t, []uint{1, 3, 2}, cardIDs(ordered))
}
