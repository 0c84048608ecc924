package services

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/models"
)

// Ngưỡng điểm fuzzy (0-100), so sánh chặt ">" — 80 bị loại, 81 được nhận.
const (
	SearchThreshold       = 80
	AutocompleteThreshold = 60
	MaxSearchResults      = 5
)

func PassesSearchThreshold(score int) bool { return score > SearchThreshold }

func PassesAutocompleteThreshold(score int) bool { return score > AutocompleteThreshold }

type FuzzyMatchResult struct {
	Target string `json:"target"`
	Score  int    `json:"score"`
}

type CombinedSearchResult struct {
	Users   []UserSummary   `json:"users"`
	Lessons []LessonSummary `json:"lessons"`
}

// FuzzyMatch chấm điểm gần đúng giữa query và từng chuỗi ứng viên,
// lấy điểm cao nhất làm điểm xếp hạng của ứng viên đó.
func FuzzyMatch(query string, targets []string) FuzzyMatchResult {
	best := FuzzyMatchResult{}
	for _, t := range targets {
		if t == "" {
			continue
		}
		score := fuzzy.WRatio(query, strings.ToLower(t))
		if score > best.Score {
			best = FuzzyMatchResult{Target: t, Score: score}
		}
	}
	return best
}

// userSearchStrings: username, họ, tên và "tên họ" ghép.
func userSearchStrings(u models.User) []string {
	targets := []string{u.Username}
	var first, last string
	if u.FirstName != nil {
		first = *u.FirstName
		targets = append(targets, first)
	}
	if u.LastName != nil {
		last = *u.LastName
		targets = append(targets, last)
	}
	if first != "" || last != "" {
		targets = append(targets, strings.TrimSpace(first+" "+last))
	}
	return targets
}

// lessonSearchStrings: toàn bộ tag cộng với tiêu đề.
func lessonSearchStrings(l models.Lesson) []string {
	targets := make([]string, 0, len(l.Tags)+1)
	for _, t := range l.Tags {
		targets = append(targets, t.Name)
	}
	return append(targets, l.Title)
}

// Bước 1 — lọc ứng viên rẻ bằng predicate LIKE hai chiều:
// tên chứa query hoặc query chứa tên (bắt cả substring lẫn partial nguyên từ).
func searchUserCandidates(db *gorm.DB, queryLower string) ([]models.User, error) {
	like := "%" + queryLower + "%"
	var users []models.User
	err := db.
		Preload("Lessons").
		Where("LOWER(username) LIKE ?"+
			" OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?"+
			" OR ? LIKE '%' || LOWER(first_name) || '%'"+
			" OR ? LIKE '%' || LOWER(last_name) || '%'",
			like, like, like, queryLower, queryLower).
		Find(&users).Error
	return users, err
}

// Ứng viên bài học: tiêu đề chứa query hoặc tag giao với query theo substring
// hai chiều. Bài học không nhìn thấy được bị loại NGAY từ bước này để không
// rò rỉ sự tồn tại của bài học private qua số lượng kết quả.
func searchLessonCandidates(db *gorm.DB, queryLower string, requesterID *uint) ([]models.Lesson, error) {
	like := "%" + queryLower + "%"
	var ownerID uint
	if requesterID != nil {
		ownerID = *requesterID
	}

	var lessons []models.Lesson
	err := db.
		Preload("LessonMedia").
		Preload("Owner.Lessons").
		Preload("Flashcards").
		Preload("Tags").
		Preload("Likes").
		Where("(LOWER(title) LIKE ?"+
			" OR EXISTS (SELECT 1 FROM lesson_tags lt JOIN tags t ON t.id = lt.tag_id"+
			" WHERE lt.lesson_id = lessons.id AND (t.name LIKE ? OR ? LIKE '%' || t.name || '%')))"+
			" AND (is_public = ? OR owner_id = ?)",
			like, like, queryLower, true, ownerID).
		Find(&lessons).Error
	return lessons, err
}

// Search thực hiện tìm kiếm đầy đủ: lọc ứng viên -> chấm điểm fuzzy ->
// ngưỡng 80 -> sắp giảm dần theo điểm (điểm bằng giữ thứ tự fetch) -> top 5.
func Search(db *gorm.DB, query string, requesterID *uint) (CombinedSearchResult, error) {
	result := CombinedSearchResult{
		Users:   []UserSummary{},
		Lessons: []LessonSummary{},
	}
	queryLower := strings.ToLower(query)

	userCandidates, err := searchUserCandidates(db, queryLower)
	if err != nil {
		return result, err
	}
	lessonCandidates, err := searchLessonCandidates(db, queryLower, requesterID)
	if err != nil {
		return result, err
	}

	type scoredUser struct {
		user  models.User
		score int
	}
	var users []scoredUser
	for _, u := range userCandidates {
		if m := FuzzyMatch(queryLower, userSearchStrings(u)); PassesSearchThreshold(m.Score) {
			users = append(users, scoredUser{user: u, score: m.Score})
		}
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].score > users[j].score })
	for i, su := range users {
		if i == MaxSearchResults {
			break
		}
		result.Users = append(result.Users, NewUserSummary(su.user))
	}

	type scoredLesson struct {
		lesson models.Lesson
		score  int
	}
	var lessons []scoredLesson
	for _, l := range lessonCandidates {
		if m := FuzzyMatch(queryLower, lessonSearchStrings(l)); PassesSearchThreshold(m.Score) {
			lessons = append(lessons, scoredLesson{lesson: l, score: m.Score})
		}
	}
	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].score > lessons[j].score })
	for i, sl := range lessons {
		if i == MaxSearchResults {
			break
		}
		result.Lessons = append(result.Lessons, NewLessonSummary(sl.lesson, requesterID))
	}

	return result, nil
}

// Autocomplete trả về chuỗi hiển thị đã khớp (không phải entity đầy đủ),
// ngưỡng 60, khử trùng lặp, bài học xếp trước người dùng, tối đa 5 gộp chung.
func Autocomplete(db *gorm.DB, query string, requesterID *uint) ([]string, error) {
	queryLower := strings.ToLower(query)

	userCandidates, err := searchUserCandidates(db, queryLower)
	if err != nil {
		return nil, err
	}

	// Ứng viên bài học cho autocomplete: mọi bài học nhìn thấy được
	var ownerID uint
	if requesterID != nil {
		ownerID = *requesterID
	}
	var lessonCandidates []models.Lesson
	if err := db.
		Preload("Tags").
		Where("is_public = ? OR owner_id = ?", true, ownerID).
		Find(&lessonCandidates).Error; err != nil {
		return nil, err
	}

	type scored struct {
		target string
		score  int
	}

	var lessonMatches []scored
	for _, l := range lessonCandidates {
		if m := FuzzyMatch(queryLower, lessonSearchStrings(l)); PassesAutocompleteThreshold(m.Score) {
			lessonMatches = append(lessonMatches, scored{target: m.Target, score: m.Score})
		}
	}
	var userMatches []scored
	for _, u := range userCandidates {
		if m := FuzzyMatch(queryLower, userSearchStrings(u)); PassesAutocompleteThreshold(m.Score) {
			userMatches = append(userMatches, scored{target: m.Target, score: m.Score})
		}
	}

	sort.SliceStable(lessonMatches, func(i, j int) bool { return lessonMatches[i].score > lessonMatches[j].score })
	sort.SliceStable(userMatches, func(i, j int) bool { return userMatches[i].score > userMatches[j].score })

	// Gộp: bài học trước, khử trùng lặp, cắt còn 5
	combined := []string{}
	seen := map[string]bool{}
	for _, lists := range [][]scored{lessonMatches, userMatches} {
		for _, m := range lists {
			if seen[m.target] {
				continue
			}
			seen[m.target] = true
			combined = append(combined, m.target)
			if len(combined) == MaxSearchResults {
				return combined, nil
			}
		}
	}
	return combined, nil
}
