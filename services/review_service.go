package services

import (
	"sort"

	"github.com/quizzler-app/quizzler-backend/models"
)

// OrderFlashcards xếp thứ tự ôn tập dựa trên lịch sử trả lời: hàm thuần,
// không I/O. Mỗi flashcard khởi đầu rating 0; trả lời đúng trừ 2, sai cộng 1
// (đúng kéo xuống mạnh hơn sai đẩy lên — xấp xỉ spaced repetition đơn giản).
// Rating cao hơn đứng trước; sắp xếp ổn định nên rating bằng nhau giữ nguyên
// thứ tự đầu vào — logs rỗng trả về đúng thứ tự gốc.
func OrderFlashcards(cards []models.Flashcard, logs []models.FlashcardLog) []models.Flashcard {
	ratings := make(map[uint]int, len(cards))
	for _, f := range cards {
		ratings[f.ID] = 0
	}
	for _, lg := range logs {
		if _, ok := ratings[lg.FlashcardID]; !ok {
			continue
		}
		if lg.WasCorrect {
			ratings[lg.FlashcardID] -= 2
		} else {
			ratings[lg.FlashcardID]++
		}
	}

	ordered := make([]models.Flashcard, len(cards))
	copy(ordered, cards)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ratings[ordered[i].ID] > ratings[ordered[j].ID]
	})
	return ordered
}
