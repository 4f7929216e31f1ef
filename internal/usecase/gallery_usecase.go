package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/metrics"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

const (
	galleryFolder      = "gallery"
	MaxGalleryBatch    = 10
	galleryUploadLimit = 4
	errImageNotFound   = "Image not found."
)

type GalleryUseCase struct {
	repo    contract.IGalleryRepository
	storage contract.IObjectStorage
	uuidGen contract.IUUIDGenerator
	logger  usecasecontract.IAppLogger
	cache   contract.IContentCache
	now     func() time.Time
}

var _ usecasecontract.IGalleryUseCase = (*GalleryUseCase)(nil)

func NewGalleryUseCase(repo contract.IGalleryRepository, storage contract.IObjectStorage, uuidGen contract.IUUIDGenerator, logger usecasecontract.IAppLogger) *GalleryUseCase {
	return &GalleryUseCase{repo: repo, storage: storage, uuidGen: uuidGen, logger: logger, now: time.Now}
}

// SetContentCache enables list caching.
func (uc *GalleryUseCase) SetContentCache(cache contract.IContentCache) {
	uc.cache = cache
}

// UploadImages stores up to MaxGalleryBatch files concurrently. Either every
// image is saved or the uploaded objects are removed again.
func (uc *GalleryUseCase) UploadImages(ctx context.Context, caption string, files []entity.Upload) ([]*entity.GalleryImage, error) {
	if len(files) == 0 {
		return nil, entity.NewValidationError("No images uploaded.")
	}
	if len(files) > MaxGalleryBatch {
		return nil, entity.NewValidationError("You can upload at most 10 images at a time.")
	}
	if uc.storage == nil {
		return nil, entity.NewUpstreamError(msgUploadsUnavailable, nil)
	}
	caption = strings.TrimSpace(caption)

	objects := make([]*entity.StoredObject, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(galleryUploadLimit)
	for i := range files {
		i := i
		g.Go(func() error {
			obj, err := uc.storage.Upload(gctx, galleryFolder, files[i])
			if err != nil {
				return err
			}
			objects[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.cleanup(ctx, objects)
		uc.logger.Errorf("failed to upload gallery batch: %v", err)
		return nil, entity.NewUpstreamError("Server error while uploading images.", err)
	}

	now := uc.now()
	images := make([]*entity.GalleryImage, len(objects))
	for i, obj := range objects {
		images[i] = &entity.GalleryImage{
			ID:        uc.uuidGen.NewUUID(),
			ImageURL:  obj.URL,
			ImageKey:  obj.Key,
			Caption:   caption,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	if err := uc.repo.CreateImages(ctx, images); err != nil {
		uc.cleanup(ctx, objects)
		uc.logger.Errorf("failed to save gallery batch: %v", err)
		return nil, entity.NewUpstreamError("Server error while uploading images.", err)
	}
	uc.invalidate(ctx)
	return images, nil
}

func (uc *GalleryUseCase) ListImages(ctx context.Context) ([]*entity.GalleryImage, error) {
	if uc.cache != nil {
		t0 := time.Now()
		cached, found, err := uc.cache.GetGalleryList(ctx)
		elapsed := time.Since(t0)
		switch {
		case err == nil && found:
			metrics.IncListHit(metrics.ListingGallery)
			metrics.AddHitDuration(elapsed.Seconds())
			uc.logger.Debugf("cache hit: gallery list took=%s", elapsed)
			return cached, nil
		case err == nil:
			metrics.IncListMiss(metrics.ListingGallery)
			metrics.AddMissDuration(elapsed.Seconds())
		default:
			uc.logger.Warnf("cache error: gallery list err=%v took=%s", err, elapsed)
		}
	}

	images, err := uc.repo.ListImages(ctx)
	if err != nil {
		uc.logger.Errorf("failed to list gallery: %v", err)
		return nil, entity.NewUpstreamError("Failed to fetch gallery images.", err)
	}
	if images == nil {
		images = []*entity.GalleryImage{}
	}
	if uc.cache != nil {
		if err := uc.cache.SetGalleryList(ctx, images); err != nil {
			uc.logger.Warnf("cache set failed: gallery list err=%v", err)
		}
	}
	return images, nil
}

func (uc *GalleryUseCase) DeleteImage(ctx context.Context, id string) error {
	img, err := uc.repo.GetImageByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewNotFoundError(errImageNotFound)
		}
		return entity.NewUpstreamError("Failed to delete image.", err)
	}
	if err := uc.repo.DeleteImage(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.NewNotFoundError(errImageNotFound)
		}
		uc.logger.Errorf("failed to delete image %s: %v", id, err)
		return entity.NewUpstreamError("Failed to delete image.", err)
	}
	if uc.storage != nil && img.ImageKey != "" {
		if err := uc.storage.Delete(ctx, img.ImageKey); err != nil {
			uc.logger.Warnf("failed to delete stored object %s: %v", img.ImageKey, err)
		}
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *GalleryUseCase) cleanup(ctx context.Context, objects []*entity.StoredObject) {
	ctx = context.WithoutCancel(ctx)
	for _, obj := range objects {
		if obj == nil {
			continue
		}
		if err := uc.storage.Delete(ctx, obj.Key); err != nil {
			uc.logger.Warnf("failed to delete stored object %s: %v", obj.Key, err)
		}
	}
}

func (uc *GalleryUseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateGallery(ctx); err != nil {
		uc.logger.Warnf("cache invalidate failed: gallery list err=%v", err)
	}
}
