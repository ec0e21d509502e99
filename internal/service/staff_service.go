package service

import (
	"context"
	"fmt"

	"campusvoice.com/backend/internal/dto"
	"campusvoice.com/backend/internal/model"
	"campusvoice.com/backend/internal/repository"
	"campusvoice.com/backend/pkg/apperror"
	"campusvoice.com/backend/pkg/storage"
)

type StaffService interface {
	Create(ctx context.Context, input dto.CreateStaffRequest) (*dto.StaffProfile, error)
	GetProfile(ctx context.Context, id uint) (*dto.StaffProfile, error)
	ListPeers(ctx context.Context, staff *model.Staff) ([]*dto.StaffProfile, error)
	UpdateProfilePicture(ctx context.Context, staff *model.Staff, file *dto.UploadedFile) (*dto.StaffProfile, error)
}

type staffService struct {
	repo        repository.StaffRepository
	fileStorage storage.FileStorage
}

func NewStaffService(repo repository.StaffRepository, fileStorage storage.FileStorage) StaffService {
	return &staffService{repo: repo, fileStorage: fileStorage}
}

func (s *staffService) Create(ctx context.Context, input dto.CreateStaffRequest) (*dto.StaffProfile, error) {
	exists, err := s.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("a staff member with this email already exists")
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	staff := &model.Staff{
		Email:        input.Email,
		PasswordHash: hashed,
		Fullname:     input.Fullname,
		Department:   input.Department,
		HallName:     input.HallName,
		RoleID:       input.RoleID,
		ReportsTo:    input.ReportsTo,
	}

	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, apperror.Internal(err)
	}

	return s.GetProfile(ctx, staff.ID)
}

func (s *staffService) GetProfile(ctx context.Context, id uint) (*dto.StaffProfile, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(fmt.Sprintf("staff with id %d not found", id))
		}
		return nil, apperror.Internal(err)
	}
	return dto.NewStaffProfile(staff), nil
}

func (s *staffService) ListPeers(ctx context.Context, staff *model.Staff) ([]*dto.StaffProfile, error) {
	peers, err := s.repo.FindPeers(ctx, staff)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	profiles := make([]*dto.StaffProfile, 0, len(peers))
	for _, peer := range peers {
		profiles = append(profiles, dto.NewStaffProfile(peer))
	}
	return profiles, nil
}

func (s *staffService) UpdateProfilePicture(ctx context.Context, staff *model.Staff, file *dto.UploadedFile) (*dto.StaffProfile, error) {
	if file == nil || file.Reader == nil {
		return nil, apperror.New(0, "profile picture file is required", apperror.ErrInvalidInput)
	}

	url, err := s.fileStorage.Upload(ctx, file.Reader, "profiles/staff", file.FileName)
	if err != nil {
		return nil, apperror.Upstream("failed to upload profile picture", err)
	}

	if err := s.repo.UpdateProfileImage(ctx, staff.ID, url); err != nil {
		return nil, apperror.Internal(err)
	}

	return s.GetProfile(ctx, staff.ID)
}
