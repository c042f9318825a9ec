package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/pitchside/quote-api/internal/domain"
	"go.uber.org/zap"
)

// AzureBlobStorage keeps quote attachment artwork in an Azure Blob
// container, one team-prefixed key per file.
type AzureBlobStorage struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

func NewAzureBlobStorage(connectionString, containerName string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	_, err = client.CreateContainer(context.Background(), containerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("attachment blob storage ready",
		zap.String("container", containerName),
	)

	return &AzureBlobStorage{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Upload streams the artwork file to a team-scoped blob and preserves the
// content type for later downloads.
func (s *AzureBlobStorage) Upload(ctx context.Context, teamID domain.TeamID, filename string, contentType string, data io.Reader) (string, int64, error) {
	blobKey := artworkKey(teamID, filename)

	uploadOptions := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	sized := &sizeReader{r: data}
	if _, err := s.client.UploadStream(ctx, s.containerName, blobKey, sized, uploadOptions); err != nil {
		return "", 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Info("attachment artwork uploaded",
		zap.String("blob", blobKey),
		zap.String("team_id", string(teamID)),
		zap.String("filename", filename),
		zap.Int64("size", sized.n),
	)

	return blobKey, sized.n, nil
}

// Download streams the stored artwork back; the caller closes the body
func (s *AzureBlobStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.containerName, storagePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}

	return resp.Body, nil
}

// Delete removes the artwork blob; a blob that is already gone is not an
// error, so repeated attachment deletes stay idempotent.
func (s *AzureBlobStorage) Delete(ctx context.Context, storagePath string) error {
	_, err := s.client.DeleteBlob(ctx, s.containerName, storagePath, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			s.logger.Debug("attachment blob already gone",
				zap.String("blob", storagePath),
			)
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	s.logger.Info("attachment artwork deleted",
		zap.String("blob", storagePath),
	)

	return nil
}

// sizeReader counts bytes as the upload stream is consumed
type sizeReader struct {
	r io.Reader
	n int64
}

func (s *sizeReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.n += int64(n)
	return n, err
}
