package service

import (
	"context"
	"sort"
	"time"

	"github.com/askarbek/lingua-tutor-bot/internal/domain/entities"
	"github.com/askarbek/lingua-tutor-bot/internal/repository"
)

type cardKey struct {
	userID       int64
	vocabularyID int64
}

type fakeCardRepo struct {
	cards map[cardKey]*entities.ReviewCard
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: make(map[cardKey]*entities.ReviewCard)}
}

func (r *fakeCardRepo) Get(_ context.Context, userID, vocabularyID int64) (*entities.ReviewCard, error) {
	card, ok := r.cards[cardKey{userID, vocabularyID}]
	if !ok {
		return nil, repository.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (r *fakeCardRepo) Upsert(_ context.Context, card *entities.ReviewCard) error {
	copied := *card
	r.cards[cardKey{card.UserID, card.VocabularyID}] = &copied
	return nil
}

func (r *fakeCardRepo) GetDue(_ context.Context, userID int64, now time.Time, limit int) ([]*entities.ReviewCard, error) {
	var due []*entities.ReviewCard
	for key, card := range r.cards {
		if key.userID == userID && card.Due(now) {
			copied := *card
			due = append(due, &copied)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		return due[i].VocabularyID < due[j].VocabularyID
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *fakeCardRepo) CountDue(_ context.Context, userID int64, now time.Time) (int, error) {
	count := 0
	for key, card := range r.cards {
		if key.userID == userID && card.Due(now) {
			count++
		}
	}
	return count, nil
}

type fakeVocabRepo struct {
	items []*entities.VocabularyItem

	// lessonOrders maps lesson id to course order for the join-backed queries.
	lessonOrders map[int64]int

	// seen marks vocabulary the user already has a card for, per GetUnseen.
	seen map[int64]bool
}

func newFakeVocabRepo(items []*entities.VocabularyItem, lessonOrders map[int64]int) *fakeVocabRepo {
	return &fakeVocabRepo{items: items, lessonOrders: lessonOrders, seen: make(map[int64]bool)}
}

func (r *fakeVocabRepo) GetByID(_ context.Context, id int64) (*entities.VocabularyItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, repository.ErrVocabularyNotFound
}

func (r *fakeVocabRepo) GetByIDs(_ context.Context, ids []int64) ([]*entities.VocabularyItem, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var found []*entities.VocabularyItem
	for _, item := range r.items {
		if want[item.ID] {
			found = append(found, item)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

func (r *fakeVocabRepo) GetByLesson(_ context.Context, lessonID int64) ([]*entities.VocabularyItem, error) {
	var found []*entities.VocabularyItem
	for _, item := range r.items {
		if item.LessonID == lessonID {
			found = append(found, item)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

func (r *fakeVocabRepo) GetForLessonsBefore(_ context.Context, order int, limit int) ([]*entities.VocabularyItem, error) {
	var found []*entities.VocabularyItem
	for _, item := range r.items {
		if r.lessonOrders[item.LessonID] < order {
			found = append(found, item)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		oi, oj := r.lessonOrders[found[i].LessonID], r.lessonOrders[found[j].LessonID]
		if oi != oj {
			return oi < oj
		}
		return found[i].ID < found[j].ID
	})
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r *fakeVocabRepo) GetUnseen(_ context.Context, _ int64, order int, limit int) ([]*entities.VocabularyItem, error) {
	var found []*entities.VocabularyItem
	for _, item := range r.items {
		if r.lessonOrders[item.LessonID] <= order && !r.seen[item.ID] {
			found = append(found, item)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		oi, oj := r.lessonOrders[found[i].LessonID], r.lessonOrders[found[j].LessonID]
		if oi != oj {
			return oi < oj
		}
		return found[i].ID < found[j].ID
	})
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r *fakeVocabRepo) Search(_ context.Context, query string, limit int) ([]*entities.VocabularyItem, error) {
	var found []*entities.VocabularyItem
	for _, item := range r.items {
		if item.Word == query || item.Translation == query {
			found = append(found, item)
		}
	}
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

type fakeFavoriteRepo struct {
	ids map[int64][]int64
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{ids: make(map[int64][]int64)}
}

func (r *fakeFavoriteRepo) Add(_ context.Context, userID, vocabularyID int64) error {
	for _, id := range r.ids[userID] {
		if id == vocabularyID {
			return nil
		}
	}
	r.ids[userID] = append(r.ids[userID], vocabularyID)
	return nil
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID, vocabularyID int64) (bool, error) {
	for i, id := range r.ids[userID] {
		if id == vocabularyID {
			r.ids[userID] = append(r.ids[userID][:i], r.ids[userID][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFavoriteRepo) GetByUserID(_ context.Context, userID int64) ([]int64, error) {
	ids := append([]int64(nil), r.ids[userID]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakeLessonRepo struct {
	lessons map[int64]*entities.Lesson
}

func newFakeLessonRepo(lessons ...*entities.Lesson) *fakeLessonRepo {
	byID := make(map[int64]*entities.Lesson, len(lessons))
	for _, l := range lessons {
		byID[l.ID] = l
	}
	return &fakeLessonRepo{lessons: byID}
}

func (r *fakeLessonRepo) GetByID(_ context.Context, id int64) (*entities.Lesson, error) {
	lesson, ok := r.lessons[id]
	if !ok {
		return nil, repository.ErrLessonNotFound
	}
	return lesson, nil
}

func (r *fakeLessonRepo) GetNextAfter(_ context.Context, order int) (*entities.Lesson, error) {
	var next *entities.Lesson
	for _, lesson := range r.lessons {
		if lesson.Order > order && (next == nil || lesson.Order < next.Order) {
			next = lesson
		}
	}
	if next == nil {
		return nil, repository.ErrLessonNotFound
	}
	return next, nil
}

type fakeFlowStateRepo struct {
	states map[int64]*entities.FlowState
}

func newFakeFlowStateRepo() *fakeFlowStateRepo {
	return &fakeFlowStateRepo{states: make(map[int64]*entities.FlowState)}
}

func (r *fakeFlowStateRepo) Get(_ context.Context, userID int64) (*entities.FlowState, error) {
	state, ok := r.states[userID]
	if !ok {
		return nil, repository.ErrFlowStateNotFound
	}
	return state, nil
}

func (r *fakeFlowStateRepo) Set(_ context.Context, userID int64, state entities.StateTag, payload []byte) error {
	r.states[userID] = &entities.FlowState{
		UserID:    userID,
		State:     state,
		Payload:   payload,
		UpdatedAt: time.Now(),
	}
	return nil
}

func (r *fakeFlowStateRepo) Clear(_ context.Context, userID int64) (bool, error) {
	_, ok := r.states[userID]
	delete(r.states, userID)
	return ok, nil
}

type fakeDictionaryRepo struct {
	entries []*entities.DictionaryEntry
	nextID  int64
}

func newFakeDictionaryRepo() *fakeDictionaryRepo {
	return &fakeDictionaryRepo{nextID: 1}
}

func (r *fakeDictionaryRepo) Create(_ context.Context, entry *entities.DictionaryEntry) error {
	entry.ID = r.nextID
	entry.CreatedAt = time.Now()
	r.nextID++
	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeDictionaryRepo) GetByUserID(_ context.Context, userID int64) ([]*entities.DictionaryEntry, error) {
	var found []*entities.DictionaryEntry
	for _, entry := range r.entries {
		if entry.UserID == userID {
			found = append(found, entry)
		}
	}
	return found, nil
}

type fakeHomeworkRepo struct {
	homeworks   map[int64]*entities.Homework
	submissions []*entities.HomeworkSubmission
}

func newFakeHomeworkRepo(homeworks ...*entities.Homework) *fakeHomeworkRepo {
	byID := make(map[int64]*entities.Homework, len(homeworks))
	for _, hw := range homeworks {
		byID[hw.ID] = hw
	}
	return &fakeHomeworkRepo{homeworks: byID}
}

func (r *fakeHomeworkRepo) GetByID(_ context.Context, id int64) (*entities.Homework, error) {
	hw, ok := r.homeworks[id]
	if !ok {
		return nil, repository.ErrHomeworkNotFound
	}
	return hw, nil
}

func (r *fakeHomeworkRepo) GetByLesson(_ context.Context, lessonID int64) (*entities.Homework, error) {
	for _, hw := range r.homeworks {
		if hw.LessonID == lessonID {
			return hw, nil
		}
	}
	return nil, repository.ErrHomeworkNotFound
}

func (r *fakeHomeworkRepo) SaveSubmission(_ context.Context, sub *entities.HomeworkSubmission) error {
	sub.ID = int64(len(r.submissions) + 1)
	copied := *sub
	r.submissions = append(r.submissions, &copied)
	return nil
}

func (r *fakeHomeworkRepo) HasPassed(_ context.Context, userID, homeworkID int64) (bool, error) {
	for _, sub := range r.submissions {
		if sub.UserID == userID && sub.HomeworkID == homeworkID && sub.Passed {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	users map[int64]*entities.User
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	byID := make(map[int64]*entities.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &fakeUserRepo{users: byID}
}

func (r *fakeUserRepo) SaveUser(_ context.Context, user *entities.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UserExists(_ context.Context, userID int64) (bool, error) {
	_, ok := r.users[userID]
	return ok, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID int64) (*entities.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) UpdateCurrentLesson(_ context.Context, userID, lessonID int64) error {
	user, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.CurrentLessonID = lessonID
	return nil
}
