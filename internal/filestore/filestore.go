// Package filestore keeps uploaded files in named buckets, namespaced by
// the uploading user.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/rs/xid"
	"go.uber.org/zap"
)

const (
	BucketResumes         = "resumes"
	BucketChatAttachments = "chat-attachments"
	BucketMatrimonyPhotos = "matrimony-photos"
)

// MaxUploadSize caps a single file.
const MaxUploadSize = 10 << 20

var buckets = map[string]bool{
	BucketResumes:         true,
	BucketChatAttachments: true,
	BucketMatrimonyPhotos: true,
}

// Store saves a file and returns its public URL.
type Store interface {
	Save(ctx context.Context, bucket string, owner uuid.UUID, filename string, r io.Reader) (string, error)
}

// Local writes to a directory served under publicURL.
type Local struct {
	root      string
	publicURL string
	now       func() time.Time
	logger    *zap.Logger
}

// NewLocal creates root if needed. publicURL is the prefix returned
// URLs start with.
func NewLocal(root, publicURL string, logger *zap.Logger) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{
		root:      root,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
		logger:    logger,
	}, nil
}

func (l *Local) Root() string {
	return l.root
}

// Save stores the file as <bucket>/<owner>/<unix-millis>-<xid>.<ext>.
func (l *Local) Save(ctx context.Context, bucket string, owner uuid.UUID, filename string, r io.Reader) (string, error) {
	if !buckets[bucket] {
		return "", apperr.Validation("unknown bucket %q", bucket)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := strconv.FormatInt(l.now().UnixMilli(), 10) + "-" + xid.New().String()
	if ext := extension(filename); ext != "" {
		name += "." + ext
	}
	rel := path.Join(bucket, owner.String(), name)
	dst := filepath.Join(l.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create bucket dir: %w", err)
	}
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxUploadSize {
		err = apperr.Validation("file exceeds %d bytes", MaxUploadSize)
	}
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write upload: %w", err)
	}

	l.logger.Info("file stored",
		zap.String("bucket", bucket),
		zap.String("path", rel),
		zap.Int64("bytes", n),
	)
	return l.publicURL + "/" + rel, nil
}

// extension keeps only a short alphanumeric suffix of the client's name.
func extension(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if len(ext) == 0 || len(ext) > 8 {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
