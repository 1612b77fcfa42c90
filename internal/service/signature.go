// Package service contains the business logic layer.
//
// This file implements signature image processing: uploaded signatures are
// normalized to a bounded PNG before storage so the stored artifact never
// depends on whatever the user's device produced.
package service

import (
	"bytes"
	"context"
	"image"
	"io"
	"log/slog"
	"time"

	// Register decoders for the formats signature uploads may arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/metrics"
	"github.com/arkology/forgetme/internal/storage"
	"github.com/disintegration/imaging"
)

// Signature image bounds. Signatures render inside a letter footer, so
// anything larger than this is wasted bytes.
const (
	SignatureMaxWidth  = 600
	SignatureMaxHeight = 200

	// SignatureMaxUploadBytes caps the raw upload size.
	SignatureMaxUploadBytes = 5 << 20 // 5 MB
)

// SignatureService processes and stores uploaded signature images.
type SignatureService interface {
	// ProcessSignature validates, normalizes, and stores one signature
	// upload. Returns the public URL of the stored image.
	ProcessSignature(ctx context.Context, data io.Reader, filename, contentType string) (string, error)
}

// signatureService is the concrete implementation of SignatureService.
type signatureService struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewSignatureService creates a new SignatureService instance.
func NewSignatureService(store storage.Storage, logger *slog.Logger) SignatureService {
	return &signatureService{
		storage: store,
		logger:  logger,
	}
}

// ProcessSignature implements SignatureService.
//
// The upload is decoded, resized to fit within SignatureMaxWidth x
// SignatureMaxHeight preserving aspect ratio, and re-encoded as PNG. The
// re-encode also strips any metadata the source image carried.
func (s *signatureService) ProcessSignature(ctx context.Context, data io.Reader, filename, contentType string) (string, error) {
	const op = "SignatureService.ProcessSignature"

	detected := storage.DetectContentType(contentType, filename, nil)
	if !storage.IsAllowedImageType(detected) {
		metrics.SignaturesProcessed.WithLabelValues("rejected").Inc()
		return "", domain.Errorf(domain.EINVALID, op, "Unsupported signature image type: %s", detected)
	}

	limited := io.LimitReader(data, SignatureMaxUploadBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return "", domain.Internal(err, op, "Failed to read signature upload")
	}
	if len(raw) > SignatureMaxUploadBytes {
		metrics.SignaturesProcessed.WithLabelValues("rejected").Inc()
		return "", domain.Errorf(domain.ETOOLARGE, op, "Signature image exceeds the %d MB limit", SignatureMaxUploadBytes>>20)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		metrics.SignaturesProcessed.WithLabelValues("rejected").Inc()
		return "", domain.Errorf(domain.EINVALID, op, "Signature image could not be decoded")
	}

	normalized := imaging.Fit(img, SignatureMaxWidth, SignatureMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, normalized, imaging.PNG); err != nil {
		return "", domain.Internal(err, op, "Failed to encode signature image")
	}

	size := buf.Len()
	key := storage.SignatureKey("signature.png")
	err = s.storage.Put(ctx, key, &buf, storage.PutOptions{
		ContentType: "image/png",
		Public:      true,
	})
	if err != nil {
		return "", domain.Internal(err, op, "Failed to store signature image")
	}

	url, err := s.storage.URL(ctx, key, 24*time.Hour)
	if err != nil {
		return "", domain.Internal(err, op, "Failed to resolve signature URL")
	}

	metrics.SignaturesProcessed.WithLabelValues("stored").Inc()
	s.logger.Info("signature stored", "key", key, "bytes", size)
	return url, nil
}
