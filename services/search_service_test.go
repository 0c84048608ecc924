package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/models"
)

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Salt:         "x",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedLesson(t *testing.T, db *gorm.DB, ownerID uint, title string, isPublic bool, tags ...string) models.Lesson {
	t.Helper()
	l := models.Lesson{OwnerID: ownerID, Title: title, IsPublic: isPublic}
	require.NoError(t, db.Create(&l).Error)
	if len(tags) > 0 {
		require.NoError(t, SetLessonTags(db, &l, tags))
	}
	return l
}

func TestFuzzyMatch(t *testing.T) {
	m := FuzzyMatch("golang", []string{"", "python", "golang"})
	assert.Equal(t, "golang", m.Target)
	assert.Equal(t, 100, m.Score)

	// Không ứng viên nào khớp thì điểm 0.
	assert.Equal(t, 0, FuzzyMatch("golang", nil).Score)
}

func TestSearchMatchesUsersAndLessons(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "teacher_one")
	seedUser(t, db, "golang")
	seedLesson(t, db, owner.ID, "Golang basics", true, "golang")

	result, err := Search(db, "golang", nil)
	require.NoError(t, err)

	require.Len(t, result.Users, 1)
	assert.Equal(t, "golang", result.Users[0].Username)
	require.Len(t, result.Lessons, 1)
	assert.Equal(t, "Golang basics", result.Lessons[0].Title)
}

func TestSearchHidesPrivateLessons(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "secret_owner")
	other := seedUser(t, db, "someone_else")
	seedLesson(t, db, owner.ID, "Golang secrets", false, "golang")

	// Khách vãng lai và người dùng khác không thấy bài private.
	result, err := Search(db, "golang", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Lessons)

	result, err = Search(db, "golang", &other.ID)
	require.NoError(t, err)
	assert.Empty(t, result.Lessons)

	// Chủ bài học thì thấy.
	result, err = Search(db, "golang", &owner.ID)
	require.NoError(t, err)
	require.Len(t, result.Lessons, 1)
	assert.Equal(t, "Golang secrets", result.Lessons[0].Title)
}

func TestSearchCapsResultsPerType(t *testing.T) {
	db := setupTestDB(t)
	for i := 0; i < 8; i++ {
		seedUser(t, db, fmt.Sprintf("golang%d", i))
	}

	result, err := Search(db, "golang", nil)
	require.NoError(t, err)
	assert.Len(t, result.Users, MaxSearchResults)
}

func TestSearchRanksExactMatchFirst(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "golang123")
	seedUser(t, db, "golang")

	result, err := Search(db, "golang", nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Users)
	assert.Equal(t, "golang", result.Users[0].Username)
}

func TestThresholdsAreStrict(t *testing.T) {
	// So sánh chặt ">": đúng ngưỡng bị loại, trên ngưỡng một điểm được nhận.
	assert.False(t, PassesSearchThreshold(SearchThreshold))
	assert.True(t, PassesSearchThreshold(SearchThreshold+1))

	assert.False(t, PassesAutocompleteThreshold(AutocompleteThreshold))
	assert.True(t, PassesAutocompleteThreshold(AutocompleteThreshold+1))
}

func TestSearchBelowThresholdExcluded(t *testing.T) {
	db := setupTestDB(t)
	// Chứa query theo substring nên qua được bước lọc ứng viên,
	// nhưng điểm fuzzy không vượt ngưỡng 80.
	seedUser(t, db, "xxgoxx_completely_different")

	result, err := Search(db, "go", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Users)
}

func TestAutocompleteReturnsMatchedStrings(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "autocomplete_owner")
	seedLesson(t, db, owner.ID, "Learn Go", true, "golang")
	seedUser(t, db, "golang_guru")

	suggestions, err := Autocomplete(db, "golang", nil)
	require.NoError(t, err)

	assert.Contains(t, suggestions, "golang")
	assert.Contains(t, suggestions, "golang_guru")
	// Chuỗi của bài học đứng trước chuỗi của người dùng.
	assert.Less(t, indexOf(suggestions, "golang"), indexOf(suggestions, "golang_guru"))
}

func TestAutocompleteDeduplicatesAndCaps(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "dedup_owner")
	// Hai bài học cùng tag -> chỉ một gợi ý cho tag đó.
	seedLesson(t, db, owner.ID, "Go A", true, "golang")
	seedLesson(t, db, owner.ID, "Go B", true, "golang")

	suggestions, err := Autocomplete(db, "golang", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, countOf(suggestions, "golang"))
	assert.LessOrEqual(t, len(suggestions), MaxSearchResults)
}

func TestAutocompleteHidesPrivateLessons(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "private_owner")
	seedLesson(t, db, owner.ID, "Hidden Go", false, "golang")

	suggestions, err := Autocomplete(db, "golang", nil)
	require.NoError(t, err)
	assert.NotContains(t, suggestions, "golang")

	suggestions, err = Autocomplete(db, "golang", &owner.ID)
	require.NoError(t, err)
	assert.Contains(t, suggestions, "golang")
}

func indexOf(items []string, want string) int {
	for i, s := range items {
		if s == want {
			return i
		}
	}
	return -1
}

func countOf(items []string, want string) int {
	n := 0
	for _, s := range items {
		if s == want {
			n++
		}
	}
	return n
}
