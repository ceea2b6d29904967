package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type memoryUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]models.User), nextID: 1}
}

func (m *memoryUserRepo) seed(user models.User) models.User {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	} else if user.ID >= m.nextID {
		m.nextID = user.ID + 1
	}
	m.users[user.ID] = user
	return user
}

func (m *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.users[user.ID] = *user
	m.nextID++
	return nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, user := range m.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserRepo) ExistsByEmail(_ context.Context, email string, excludeID uint) (bool, error) {
	for _, user := range m.users {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserRepo) ListByRole(_ context.Context, role string) ([]models.User, error) {
	results := make([]models.User, 0)
	for _, user := range m.users {
		if role == "" || user.Role == role {
			results = append(results, user)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var count int64
	for _, user := range m.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

type membership struct {
	classID   uint
	studentID uint
}

type memoryClassRepo struct {
	classes map[uint]models.Class
	members []membership
	users   *memoryUserRepo
	nextID  uint
}

func newMemoryClassRepo(users *memoryUserRepo) *memoryClassRepo {
	return &memoryClassRepo{classes: make(map[uint]models.Class), users: users, nextID: 1}
}

func (m *memoryClassRepo) seed(class models.Class) models.Class {
	if class.ID == 0 {
		class.ID = m.nextID
		m.nextID++
	} else if class.ID >= m.nextID {
		m.nextID = class.ID + 1
	}
	m.classes[class.ID] = class
	return class
}

func (m *memoryClassRepo) Create(_ context.Context, class *models.Class) error {
	class.ID = m.nextID
	class.CreatedAt = time.Now()
	m.classes[class.ID] = *class
	m.nextID++
	return nil
}

func (m *memoryClassRepo) GetByID(_ context.Context, id uint) (models.Class, error) {
	class, ok := m.classes[id]
	if !ok {
		return models.Class{}, gorm.ErrRecordNotFound
	}
	return class, nil
}

func (m *memoryClassRepo) Update(_ context.Context, class *models.Class) error {
	if _, ok := m.classes[class.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.classes[class.ID] = *class
	return nil
}

func (m *memoryClassRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.classes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.classes, id)
	kept := m.members[:0]
	for _, member := range m.members {
		if member.classID != id {
			kept = append(kept, member)
		}
	}
	m.members = kept
	return nil
}

func (m *memoryClassRepo) List(_ context.Context) ([]models.Class, error) {
	results := make([]models.Class, 0, len(m.classes))
	for _, class := range m.classes {
		results = append(results, class)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryClassRepo) ListByTeacher(_ context.Context, teacherID uint) ([]models.Class, error) {
	results := make([]models.Class, 0)
	for _, class := range m.classes {
		if class.TeacherID == teacherID {
			results = append(results, class)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryClassRepo) ListJoinedByStudent(_ context.Context, studentID uint) ([]models.Class, error) {
	results := make([]models.Class, 0)
	for _, member := range m.members {
		if member.studentID == studentID {
			if class, ok := m.classes[member.classID]; ok {
				results = append(results, class)
			}
		}
	}
	return results, nil
}

func (m *memoryClassRepo) ListAvailableForStudent(ctx context.Context, studentID uint) ([]models.Class, error) {
	joined := map[uint]bool{}
	for _, member := range m.members {
		if member.studentID == studentID {
			joined[member.classID] = true
		}
	}
	results := make([]models.Class, 0)
	for _, class := range m.classes {
		if !joined[class.ID] {
			results = append(results, class)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryClassRepo) IsMember(_ context.Context, classID, studentID uint) (bool, error) {
	for _, member := range m.members {
		if member.classID == classID && member.studentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryClassRepo) AddStudent(_ context.Context, classID, studentID uint) error {
	m.members = append(m.members, membership{classID: classID, studentID: studentID})
	return nil
}

func (m *memoryClassRepo) RemoveStudent(_ context.Context, classID, studentID uint) error {
	for i, member := range m.members {
		if member.classID == classID && member.studentID == studentID {
			m.members = append(m.members[:i], m.members[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryClassRepo) ListStudents(_ context.Context, classID uint) ([]models.User, error) {
	results := make([]models.User, 0)
	for _, member := range m.members {
		if member.classID == classID && m.users != nil {
			if user, ok := m.users.users[member.studentID]; ok {
				results = append(results, user)
			}
		}
	}
	return results, nil
}

func (m *memoryClassRepo) CountStudents(_ context.Context, classID uint) (int64, error) {
	var count int64
	for _, member := range m.members {
		if member.classID == classID {
			count++
		}
	}
	return count, nil
}

func (m *memoryClassRepo) CountJoinedByStudent(_ context.Context, studentID uint) (int64, error) {
	var count int64
	for _, member := range m.members {
		if member.studentID == studentID {
			count++
		}
	}
	return count, nil
}

type memoryApplicationRepo struct {
	applications map[uint]models.ClassApplication
	classes      *memoryClassRepo
	users        *memoryUserRepo
	nextID       uint
}

func newMemoryApplicationRepo(classes *memoryClassRepo, users *memoryUserRepo) *memoryApplicationRepo {
	return &memoryApplicationRepo{
		applications: make(map[uint]models.ClassApplication),
		classes:      classes,
		users:        users,
		nextID:       1,
	}
}

func (m *memoryApplicationRepo) Create(_ context.Context, application *models.ClassApplication) error {
	application.ID = m.nextID
	application.CreatedAt = time.Now()
	m.applications[application.ID] = *application
	m.nextID++
	return nil
}

func (m *memoryApplicationRepo) GetByID(_ context.Context, id uint) (models.ClassApplication, error) {
	application, ok := m.applications[id]
	if !ok {
		return models.ClassApplication{}, gorm.ErrRecordNotFound
	}
	if m.classes != nil {
		application.Class = m.classes.classes[application.ClassID]
	}
	if m.users != nil {
		application.Student = m.users.users[application.StudentID]
	}
	return application, nil
}

func (m *memoryApplicationRepo) Reject(_ context.Context, application *models.ClassApplication) error {
	stored, ok := m.applications[application.ID]
	if !ok || stored.Status != models.ApplicationPending {
		return repository.ErrApplicationNotPending
	}
	stored.Status = models.ApplicationRejected
	stored.RejectReason = application.RejectReason
	stored.HandledAt = application.HandledAt
	m.applications[application.ID] = stored
	return nil
}

func (m *memoryApplicationRepo) DeletePending(_ context.Context, id uint) error {
	stored, ok := m.applications[id]
	if !ok || stored.Status != models.ApplicationPending {
		return repository.ErrApplicationNotPending
	}
	delete(m.applications, id)
	return nil
}

func (m *memoryApplicationRepo) ExistsPending(_ context.Context, studentID, classID uint) (bool, error) {
	for _, application := range m.applications {
		if application.StudentID == studentID && application.ClassID == classID && application.Status == models.ApplicationPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryApplicationRepo) ListByStudent(_ context.Context, studentID uint) ([]models.ClassApplication, error) {
	results := make([]models.ClassApplication, 0)
	for _, application := range m.applications {
		if application.StudentID == studentID {
			results = append(results, application)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (m *memoryApplicationRepo) ListPendingForTeacher(_ context.Context, teacherID uint) ([]models.ClassApplication, error) {
	results := make([]models.ClassApplication, 0)
	for _, application := range m.applications {
		if application.Status != models.ApplicationPending || m.classes == nil {
			continue
		}
		if class, ok := m.classes.classes[application.ClassID]; ok && class.TeacherID == teacherID {
			results = append(results, application)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (m *memoryApplicationRepo) Approve(ctx context.Context, application *models.ClassApplication) error {
	stored, ok := m.applications[application.ID]
	if !ok || stored.Status != models.ApplicationPending {
		return repository.ErrApplicationNotPending
	}
	if m.classes != nil {
		if member, _ := m.classes.IsMember(ctx, application.ClassID, application.StudentID); member {
			return repository.ErrDuplicateMembership
		}
	}
	stored.Status = models.ApplicationApproved
	stored.HandledAt = application.HandledAt
	m.applications[application.ID] = stored
	if m.classes != nil {
		return m.classes.AddStudent(ctx, application.ClassID, application.StudentID)
	}
	return nil
}

func (m *memoryApplicationRepo) CreateApproved(ctx context.Context, application *models.ClassApplication) error {
	application.ID = m.nextID
	m.nextID++
	application.CreatedAt = time.Now()
	m.applications[application.ID] = *application
	if m.classes != nil {
		return m.classes.AddStudent(ctx, application.ClassID, application.StudentID)
	}
	return nil
}

type memoryActivityRepo struct {
	activities map[uint]models.Activity
	nextID     uint
}

func newMemoryActivityRepo() *memoryActivityRepo {
	return &memoryActivityRepo{activities: make(map[uint]models.Activity), nextID: 1}
}

func (m *memoryActivityRepo) seed(activity models.Activity) models.Activity {
	if activity.ID == 0 {
		activity.ID = m.nextID
		m.nextID++
	} else if activity.ID >= m.nextID {
		m.nextID = activity.ID + 1
	}
	m.activities[activity.ID] = activity
	return activity
}

func (m *memoryActivityRepo) Create(_ context.Context, activity *models.Activity) error {
	activity.ID = m.nextID
	activity.CreatedAt = time.Now()
	m.activities[activity.ID] = *activity
	m.nextID++
	return nil
}

func (m *memoryActivityRepo) GetByID(_ context.Context, id uint) (models.Activity, error) {
	activity, ok := m.activities[id]
	if !ok {
		return models.Activity{}, gorm.ErrRecordNotFound
	}
	return activity, nil
}

func (m *memoryActivityRepo) Update(_ context.Context, activity *models.Activity) error {
	if _, ok := m.activities[activity.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.activities[activity.ID] = *activity
	return nil
}

func (m *memoryActivityRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.activities[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.activities, id)
	return nil
}

func (m *memoryActivityRepo) List(_ context.Context) ([]models.Activity, error) {
	results := make([]models.Activity, 0, len(m.activities))
	for _, activity := range m.activities {
		results = append(results, activity)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryActivityRepo) ListByType(_ context.Context, activityType string) ([]models.Activity, error) {
	results := make([]models.Activity, 0)
	for _, activity := range m.activities {
		if activity.Type == activityType {
			results = append(results, activity)
		}
	}
	return results, nil
}

func (m *memoryActivityRepo) ListByCreator(_ context.Context, creatorID uint) ([]models.Activity, error) {
	results := make([]models.Activity, 0)
	for _, activity := range m.activities {
		if activity.CreatorID == creatorID {
			results = append(results, activity)
		}
	}
	return results, nil
}

func (m *memoryActivityRepo) ListRecentByCreator(ctx context.Context, creatorID uint, limit int) ([]models.Activity, error) {
	results, err := m.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *memoryActivityRepo) CountByCreator(_ context.Context, creatorID uint) (int64, error) {
	var count int64
	for _, activity := range m.activities {
		if activity.CreatorID == creatorID {
			count++
		}
	}
	return count, nil
}

type memoryEvaluationRepo struct {
	evaluations map[uint]models.Evaluation
	nextID      uint
}

func newMemoryEvaluationRepo() *memoryEvaluationRepo {
	return &memoryEvaluationRepo{evaluations: make(map[uint]models.Evaluation), nextID: 1}
}

func (m *memoryEvaluationRepo) Create(_ context.Context, evaluation *models.Evaluation) error {
	evaluation.ID = m.nextID
	evaluation.CreatedAt = time.Now()
	m.evaluations[evaluation.ID] = *evaluation
	m.nextID++
	return nil
}

func (m *memoryEvaluationRepo) GetByID(_ context.Context, id uint) (models.Evaluation, error) {
	evaluation, ok := m.evaluations[id]
	if !ok {
		return models.Evaluation{}, gorm.ErrRecordNotFound
	}
	return evaluation, nil
}

func (m *memoryEvaluationRepo) Update(_ context.Context, evaluation *models.Evaluation) error {
	if _, ok := m.evaluations[evaluation.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.evaluations[evaluation.ID] = *evaluation
	return nil
}

func (m *memoryEvaluationRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.evaluations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.evaluations, id)
	return nil
}

func (m *memoryEvaluationRepo) ListByStudentAndTeacher(_ context.Context, studentID, teacherID uint) ([]models.Evaluation, error) {
	results := make([]models.Evaluation, 0)
	for _, evaluation := range m.evaluations {
		if evaluation.StudentID == studentID && evaluation.TeacherID == teacherID {
			results = append(results, evaluation)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

type memoryFeedbackRepo struct {
	feedbacks map[uint]models.Feedback
	nextID    uint
}

func newMemoryFeedbackRepo() *memoryFeedbackRepo {
	return &memoryFeedbackRepo{feedbacks: make(map[uint]models.Feedback), nextID: 1}
}

func (m *memoryFeedbackRepo) Create(_ context.Context, feedback *models.Feedback) error {
	feedback.ID = m.nextID
	feedback.CreatedAt = time.Now()
	m.feedbacks[feedback.ID] = *feedback
	m.nextID++
	return nil
}

func (m *memoryFeedbackRepo) GetByID(_ context.Context, id uint) (models.Feedback, error) {
	feedback, ok := m.feedbacks[id]
	if !ok {
		return models.Feedback{}, gorm.ErrRecordNotFound
	}
	return feedback, nil
}

func (m *memoryFeedbackRepo) Update(_ context.Context, feedback *models.Feedback) error {
	if _, ok := m.feedbacks[feedback.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.feedbacks[feedback.ID] = *feedback
	return nil
}

func (m *memoryFeedbackRepo) ListByStudent(_ context.Context, studentID uint) ([]models.Feedback, error) {
	results := make([]models.Feedback, 0)
	for _, feedback := range m.feedbacks {
		if feedback.StudentID == studentID {
			results = append(results, feedback)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (m *memoryFeedbackRepo) ListByTeacher(_ context.Context, teacherID uint) ([]models.Feedback, error) {
	results := make([]models.Feedback, 0)
	for _, feedback := range m.feedbacks {
		if feedback.TeacherID == teacherID {
			results = append(results, feedback)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

type memoryGoalRepo struct {
	goals  map[uint]models.LearningGoal
	nextID uint
}

func newMemoryGoalRepo() *memoryGoalRepo {
	return &memoryGoalRepo{goals: make(map[uint]models.LearningGoal), nextID: 1}
}

func (m *memoryGoalRepo) Create(_ context.Context, goal *models.LearningGoal) error {
	goal.ID = m.nextID
	goal.CreatedAt = time.Now()
	m.goals[goal.ID] = *goal
	m.nextID++
	return nil
}

func (m *memoryGoalRepo) GetByID(_ context.Context, id uint) (models.LearningGoal, error) {
	goal, ok := m.goals[id]
	if !ok {
		return models.LearningGoal{}, gorm.ErrRecordNotFound
	}
	return goal, nil
}

func (m *memoryGoalRepo) Update(_ context.Context, goal *models.LearningGoal) error {
	if _, ok := m.goals[goal.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.goals[goal.ID] = *goal
	return nil
}

func (m *memoryGoalRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.goals[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.goals, id)
	return nil
}

func (m *memoryGoalRepo) ListByTeacher(_ context.Context, teacherID uint) ([]models.LearningGoal, error) {
	results := make([]models.LearningGoal, 0)
	for _, goal := range m.goals {
		if goal.TeacherID == teacherID {
			results = append(results, goal)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryGoalRepo) ListByStudent(_ context.Context, studentID uint) ([]models.LearningGoal, error) {
	results := make([]models.LearningGoal, 0)
	for _, goal := range m.goals {
		if goal.StudentID == studentID {
			results = append(results, goal)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryGoalRepo) ListByStudentAndTeacher(_ context.Context, studentID, teacherID uint) ([]models.LearningGoal, error) {
	results := make([]models.LearningGoal, 0)
	for _, goal := range m.goals {
		if goal.StudentID == studentID && goal.TeacherID == teacherID {
			results = append(results, goal)
		}
	}
	return results, nil
}

func (m *memoryGoalRepo) CountByTeacher(_ context.Context, teacherID uint) (int64, error) {
	var count int64
	for _, goal := range m.goals {
		if goal.TeacherID == teacherID {
			count++
		}
	}
	return count, nil
}

func (m *memoryGoalRepo) CountByStudentAndStatus(_ context.Context, studentID uint, status string) (int64, error) {
	var count int64
	for _, goal := range m.goals {
		if goal.StudentID == studentID && goal.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *memoryGoalRepo) CountByStudent(_ context.Context, studentID uint) (int64, error) {
	var count int64
	for _, goal := range m.goals {
		if goal.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

type memoryParticipationRepo struct {
	participations map[uint]models.ActivityParticipation
	activities     *memoryActivityRepo
	nextID         uint
}

func newMemoryParticipationRepo(activities *memoryActivityRepo) *memoryParticipationRepo {
	return &memoryParticipationRepo{
		participations: make(map[uint]models.ActivityParticipation),
		activities:     activities,
		nextID:         1,
	}
}

func (m *memoryParticipationRepo) GetByUserAndActivity(_ context.Context, userID, activityID uint) (models.ActivityParticipation, error) {
	for _, participation := range m.participations {
		if participation.UserID == userID && participation.ActivityID == activityID {
			if m.activities != nil {
				participation.Activity = m.activities.activities[activityID]
			}
			return participation, nil
		}
	}
	return models.ActivityParticipation{}, gorm.ErrRecordNotFound
}

func (m *memoryParticipationRepo) ListByUser(_ context.Context, userID uint) ([]models.ActivityParticipation, error) {
	results := make([]models.ActivityParticipation, 0)
	for _, participation := range m.participations {
		if participation.UserID == userID {
			if m.activities != nil {
				participation.Activity = m.activities.activities[participation.ActivityID]
			}
			results = append(results, participation)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (m *memoryParticipationRepo) CountByUserAndStatus(_ context.Context, userID uint, status string) (int64, error) {
	var count int64
	for _, participation := range m.participations {
		if participation.UserID == userID && participation.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *memoryParticipationRepo) incrementCounter(activityID uint) error {
	activity, ok := m.activities.activities[activityID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if activity.CurrentParticipants >= activity.MaxParticipants {
		return repository.ErrCapacityReached
	}
	activity.CurrentParticipants++
	m.activities.activities[activityID] = activity
	return nil
}

func (m *memoryParticipationRepo) Register(_ context.Context, participation *models.ActivityParticipation) error {
	if err := m.incrementCounter(participation.ActivityID); err != nil {
		return err
	}
	participation.ID = m.nextID
	m.participations[participation.ID] = *participation
	m.nextID++
	return nil
}

func (m *memoryParticipationRepo) Reactivate(_ context.Context, participation *models.ActivityParticipation) error {
	if err := m.incrementCounter(participation.ActivityID); err != nil {
		return err
	}
	m.participations[participation.ID] = *participation
	return nil
}

func (m *memoryParticipationRepo) Cancel(_ context.Context, participation *models.ActivityParticipation) error {
	m.participations[participation.ID] = *participation
	if activity, ok := m.activities.activities[participation.ActivityID]; ok && activity.CurrentParticipants > 0 {
		activity.CurrentParticipants--
		m.activities.activities[participation.ActivityID] = activity
	}
	return nil
}

func (m *memoryParticipationRepo) Complete(_ context.Context, participation *models.ActivityParticipation) error {
	m.participations[participation.ID] = *participation
	return nil
}
