package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"

	"github.com/ginogen/litigium-sub001/internal/dto"
	"github.com/ginogen/litigium-sub001/internal/entity"
	"github.com/ginogen/litigium-sub001/internal/pkg/logger"
	"github.com/ginogen/litigium-sub001/pkg/backend"
)

const driveStatusKey = "drive-status"

// driveAPI is the slice of the backend client the Drive service uses. The
// backend proxies every Drive call; OAuth never touches this process.
type driveAPI interface {
	DriveStatus(ctx context.Context) (*backend.DriveStatusResponse, error)
	DriveAuthURL(ctx context.Context) (*backend.DriveAuthURLResponse, error)
	DriveFiles(ctx context.Context, folderID string) (*backend.DriveFilesResponse, error)
	DriveImport(ctx context.Context, req *backend.DriveImportRequest) (*backend.DriveImportResponse, error)
	DriveFolders(ctx context.Context) (*backend.DriveFoldersResponse, error)
	DriveCreateFolder(ctx context.Context, req *backend.DriveCreateFolderRequest) (*backend.DriveCreateFolderResponse, error)
	DriveSave(ctx context.Context, req *backend.DriveSaveRequest) (*backend.DriveSaveResponse, error)
}

type IDriveService interface {
	// Status is cached briefly: hosts poll it on every screen change and
	// the linkage state rarely moves.
	Status(ctx context.Context) (*entity.DriveStatus, error)
	AuthURL(ctx context.Context) (string, error)
	Files(ctx context.Context, folderID string) ([]entity.DriveFile, error)
	Import(ctx context.Context, input *dto.ImportFileInput) (string, error)
	Folders(ctx context.Context) ([]entity.DriveFolder, error)
	CreateFolder(ctx context.Context, input *dto.CreateFolderInput) (*entity.DriveFolder, error)
	Save(ctx context.Context, input *dto.SaveToDriveInput) (*dto.SaveToDriveResult, error)
}

type driveService struct {
	api         driveAPI
	validate    *validator.Validate
	logger      logger.ILogger
	statusCache *cache.Cache
}

var _ IDriveService = &driveService{}

func NewDriveService(api driveAPI, validate *validator.Validate, sysLogger logger.ILogger) IDriveService {
	return &driveService{
		api:         api,
		validate:    validate,
		logger:      sysLogger,
		statusCache: cache.New(30*time.Second, time.Minute),
	}
}

func (s *driveService) Status(ctx context.Context) (*entity.DriveStatus, error) {
	if cached, found := s.statusCache.Get(driveStatusKey); found {
		return cached.(*entity.DriveStatus), nil
	}

	resp, err := s.api.DriveStatus(ctx)
	if err != nil {
		return nil, err
	}
	status := &entity.DriveStatus{Connected: resp.Connected, Email: resp.Email}
	s.statusCache.Set(driveStatusKey, status, cache.DefaultExpiration)
	return status, nil
}

func (s *driveService) AuthURL(ctx context.Context) (string, error) {
	resp, err := s.api.DriveAuthURL(ctx)
	if err != nil {
		return "", err
	}
	// Linking state is about to change; the cached status is stale.
	s.statusCache.Delete(driveStatusKey)
	return resp.AuthURL, nil
}

func (s *driveService) Files(ctx context.Context, folderID string) ([]entity.DriveFile, error) {
	resp, err := s.api.DriveFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}
	files := make([]entity.DriveFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, entity.DriveFile{
			Id:         f.ID,
			Name:       f.Name,
			MimeType:   f.MimeType,
			ModifiedAt: f.ModifiedAt,
		})
	}
	return files, nil
}

func (s *driveService) Import(ctx context.Context, input *dto.ImportFileInput) (string, error) {
	if err := s.validate.Struct(input); err != nil {
		return "", err
	}
	resp, err := s.api.DriveImport(ctx, &backend.DriveImportRequest{
		FileID:    input.FileId,
		SessionID: input.SessionId,
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("DRIVE", "file imported", map[string]interface{}{
		"file_id":    input.FileId,
		"documento":  resp.DocumentID,
		"session_id": input.SessionId,
	})
	return resp.DocumentID, nil
}

func (s *driveService) Folders(ctx context.Context) ([]entity.DriveFolder, error) {
	resp, err := s.api.DriveFolders(ctx)
	if err != nil {
		return nil, err
	}
	folders := make([]entity.DriveFolder, 0, len(resp.Folders))
	for _, f := range resp.Folders {
		folders = append(folders, entity.DriveFolder{Id: f.ID, Name: f.Name})
	}
	return folders, nil
}

func (s *driveService) CreateFolder(ctx context.Context, input *dto.CreateFolderInput) (*entity.DriveFolder, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	resp, err := s.api.DriveCreateFolder(ctx, &backend.DriveCreateFolderRequest{
		Name:     input.Name,
		ParentID: input.ParentId,
	})
	if err != nil {
		return nil, err
	}
	return &entity.DriveFolder{Id: resp.Folder.ID, Name: resp.Folder.Name}, nil
}

func (s *driveService) Save(ctx context.Context, input *dto.SaveToDriveInput) (*dto.SaveToDriveResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	resp, err := s.api.DriveSave(ctx, &backend.DriveSaveRequest{
		SessionID: input.SessionId,
		FolderID:  input.FolderId,
		Filename:  input.Filename,
	})
	if err != nil {
		return nil, err
	}
	return &dto.SaveToDriveResult{FileId: resp.FileID, WebLink: resp.WebLink}, nil
}
