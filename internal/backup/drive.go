package backup

import (
	"bytes"
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveStorage keeps backup files in a single google drive folder.
type DriveStorage struct {
	service  *drive.Service
	folderID string
	// shareWith gets reader access to every created file, when set
	shareWith string
}

func NewDriveStorage(ctx context.Context, credentialsJSON []byte, folderName, shareWith string) (*DriveStorage, error) {
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	s := &DriveStorage{
		service:   driveService,
		shareWith: shareWith,
	}

	folderQuery := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, folderName)
	folders, err := driveService.Files.List().
		Q(folderQuery).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	switch len(folders.Files) {
	case 0:
		log.Printf("backups folder %s not found, creating ...", folderName)
		if s.folderID, err = s.createFolder(ctx, folderName); err != nil {
			return nil, fmt.Errorf("create backups folder: %w", err)
		}
		log.Printf("new backups folder created: %s", s.folderID)
	case 1:
		s.folderID = folders.Files[0].Id
	default:
		s.folderID = folders.Files[0].Id
		log.Warnf("found %d backups folders named %s, will take the first one: %s", len(folders.Files), folderName, s.folderID)
	}

	return s, nil
}

func (s *DriveStorage) createFolder(ctx context.Context, name string) (string, error) {
	folder, err := s.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if err := s.share(ctx, folder.Id); err != nil {
		return folder.Id, err
	}
	return folder.Id, nil
}

func (s *DriveStorage) share(ctx context.Context, fileID string) error {
	if s.shareWith == "" {
		return nil
	}
	_, err := s.service.Permissions.Create(fileID, &drive.Permission{
		EmailAddress: s.shareWith,
		Type:         "user",
		Role:         "reader",
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("share %s: %w", fileID, err)
	}
	return nil
}

func (s *DriveStorage) ListFiles(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType != '%s' and trashed = false", s.folderID, folderMimeType)

	var names []string
	err := s.service.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name)").
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				names = append(names, f.Name)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (s *DriveStorage) Upload(ctx context.Context, name string, data []byte) (string, error) {
	file, err := s.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: "application/json",
		Parents:  []string{s.folderID},
	}).Fields("id").Media(bytes.NewReader(data)).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if err := s.share(ctx, file.Id); err != nil {
		return file.Id, err
	}
	return file.Id, nil
}
