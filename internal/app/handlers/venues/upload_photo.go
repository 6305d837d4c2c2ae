package venues

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	"courtside/internal/domain/shared/fault"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
	"courtside/internal/infra/storage/s3"
)

type UploadPhotoCommand struct {
	VenueID     string
	ActorID     string
	ObjectKey   string
	ContentType string
	Reader      io.Reader
}

type UploadPhotoResult struct {
	VenueID string   `json:"venue_id"`
	Photos  []string `json:"photos"`
}

type UploadPhotoHandler struct {
	UoWFactory uow.Factory
	Uploader   s3.Uploader
	Logger     *slog.Logger
	Now        func() time.Time
}

func (h *UploadPhotoHandler) Handle(ctx context.Context, cmd UploadPhotoCommand) (*UploadPhotoResult, error) {
	if h.Uploader == nil {
		return nil, fault.New(fault.CodeInternal, "photo storage unavailable")
	}
	if cmd.Reader == nil {
		return nil, fault.Validation("photo content is required")
	}
	if strings.TrimSpace(cmd.ObjectKey) == "" {
		return nil, fault.Validation("object key is required")
	}
	now := h.now()

	var result *UploadPhotoResult
	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		v, err := unit.Venues().ByID(ctx, domainvenue.VenueID(cmd.VenueID))
		if err != nil {
			if errors.Is(err, domainvenue.ErrNotFound) {
				return fault.NotFound("venue")
			}
			return err
		}
		if v.OwnerID != domainuser.UserID(cmd.ActorID) {
			return fault.Forbidden("only the venue owner may add photos")
		}

		publicURL, err := h.Uploader.Upload(ctx, cmd.ObjectKey, cmd.Reader, cmd.ContentType)
		if err != nil {
			return fmt.Errorf("upload photo: %w", err)
		}
		v.AddPhoto(publicURL, now)
		if err := unit.Venues().Save(ctx, v); err != nil {
			return err
		}

		if h.Logger != nil {
			h.Logger.Info("venue photo added", "venue_id", v.ID, "object_key", cmd.ObjectKey)
		}
		result = &UploadPhotoResult{
			VenueID: string(v.ID),
			Photos:  append([]string(nil), v.Photos...),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *UploadPhotoHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
