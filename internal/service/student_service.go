package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"campusvoice.com/backend/internal/dto"
	"campusvoice.com/backend/internal/model"
	"campusvoice.com/backend/internal/repository"
	"campusvoice.com/backend/pkg/apperror"
	"campusvoice.com/backend/pkg/storage"
)

type StudentService interface {
	Register(ctx context.Context, input dto.RegisterStudentRequest) (*model.Student, error)
	GetProfile(ctx context.Context, id uint) (*model.Student, error)
	UpdateProfilePicture(ctx context.Context, student *model.Student, file *dto.UploadedFile) (*model.Student, error)
}

type studentService struct {
	repo        repository.StudentRepository
	fileStorage storage.FileStorage
	notifier    NotificationService
}

func NewStudentService(repo repository.StudentRepository, fileStorage storage.FileStorage, notifier NotificationService) StudentService {
	return &studentService{repo: repo, fileStorage: fileStorage, notifier: notifier}
}

func (s *studentService) Register(ctx context.Context, input dto.RegisterStudentRequest) (*model.Student, error) {
	exists, err := s.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("a student with this email already exists")
	}

	exists, err = s.repo.ExistsByMatricNo(ctx, input.MatricNo)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("a student with this matric number already exists")
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	student := &model.Student{
		MatricNo:     input.MatricNo,
		Email:        input.Email,
		PasswordHash: hashed,
		Fullname:     input.Fullname,
		Department:   input.Department,
		School:       input.School,
		HallName:     input.HallName,
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, apperror.Internal(err)
	}

	s.welcomeAsync(student)

	student.PasswordHash = ""
	return student, nil
}

// welcomeAsync greets the new student best-effort; registration never fails
// because the notification pipeline is down.
func (s *studentService) welcomeAsync(student *model.Student) {
	if s.notifier == nil {
		return
	}
	id := student.ID
	name := student.Fullname
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		message := fmt.Sprintf("Welcome, %s. You can now file complaints and track their resolution here.", name)
		if err := s.notifier.Notify(ctx, model.RecipientStudent, id, nil, "Welcome to CampusVoice", message); err != nil {
			log.Printf("failed to send welcome notification to student %d: %v", id, err)
		}
	}()
}

func (s *studentService) GetProfile(ctx context.Context, id uint) (*model.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(fmt.Sprintf("student with id %d not found", id))
		}
		return nil, apperror.Internal(err)
	}
	student.PasswordHash = ""
	return student, nil
}

func (s *studentService) UpdateProfilePicture(ctx context.Context, student *model.Student, file *dto.UploadedFile) (*model.Student, error) {
	if file == nil || file.Reader == nil {
		return nil, apperror.New(0, "profile picture file is required", apperror.ErrInvalidInput)
	}

	url, err := s.fileStorage.Upload(ctx, file.Reader, "profiles/students", file.FileName)
	if err != nil {
		return nil, apperror.Upstream("failed to upload profile picture", err)
	}

	// Old image is replaced lazily: the previous URL simply stops being
	// referenced. Cloudinary cleanup is a maintenance concern, not a request
	// path one.
	if err := s.repo.UpdateProfileImage(ctx, student.ID, url); err != nil {
		return nil, apperror.Internal(err)
	}

	return s.GetProfile(ctx, student.ID)
}
