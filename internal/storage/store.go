// Package storage implements the local-disk media store. Uploads are grouped
// into named buckets and served back as static files.
package storage

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"creospace/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder
)

// Bucket names. Each bucket is a directory under the media root.
const (
	BucketSocialImages  = "social-images"
	BucketSocialVideos  = "social-videos"
	BucketStories       = "stories"
	BucketProjectImages = "project-images"
	BucketCollections   = "media-collections"
)

const (
	imageMaxDimension = 2048
	webpQuality       = 70

	defaultMaxImageMB = 10
)

// allowedBuckets maps each bucket to whether it accepts video uploads.
var allowedBuckets = map[string]bool{
	BucketSocialImages:  false,
	BucketSocialVideos:  true,
	BucketStories:       true,
	BucketProjectImages: false,
	BucketCollections:   false,
}

// videoMIMEs are the container types accepted in video-capable buckets.
var videoMIMEs = map[string]string{
	"video/mp4":  "mp4",
	"video/webm": "webm",
}

// Config holds media store settings.
type Config struct {
	Root       string
	BaseURL    string
	MaxImageMB int
}

// Store saves uploads to a bucketed directory tree on local disk. Images are
// transcoded to WebP and downscaled to a bounded size; videos are stored
// verbatim.
type Store struct {
	root       string
	baseURL    string
	maxImageMB int
	now        func() time.Time
}

// NewStore creates the media root directory and returns a Store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("media root not configured")
	}
	if err := os.MkdirAll(cfg.Root, 0o750); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}

	maxImageMB := cfg.MaxImageMB
	if maxImageMB <= 0 {
		maxImageMB = defaultMaxImageMB
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "/media"
	}

	return &Store{
		root:       cfg.Root,
		baseURL:    baseURL,
		maxImageMB: maxImageMB,
		now:        time.Now,
	}, nil
}

// ValidBucket reports whether name is a known bucket.
func ValidBucket(name string) bool {
	_, ok := allowedBuckets[name]
	return ok
}

// Save stores an upload into the given bucket and returns the public URL.
// Content type is sniffed from the payload, never trusted from the client.
func (s *Store) Save(bucket string, userID uint, content []byte) (string, error) {
	if !ValidBucket(bucket) {
		return "", models.NewValidationError("Unknown media bucket")
	}
	if userID == 0 {
		return "", models.NewValidationError("Invalid user")
	}
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}

	detected := http.DetectContentType(content)
	switch {
	case strings.HasPrefix(detected, "image/"):
		return s.saveImage(bucket, userID, content)
	case allowedBuckets[bucket]:
		if ext, ok := videoMIMEs[detected]; ok {
			return s.saveRaw(bucket, userID, content, ext)
		}
		return "", models.NewValidationError("Unsupported video type")
	default:
		return "", models.NewValidationError("Unsupported media type")
	}
}

// saveImage decodes, bounds-checks, downscales and transcodes an image to
// WebP before writing it out.
func (s *Store) saveImage(bucket string, userID uint, content []byte) (string, error) {
	if int64(len(content)) > int64(s.maxImageMB)*1024*1024 {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxImageMB))
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	resized := resizeToFit(decoded, imageMaxDimension, imageMaxDimension)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, resized, &webp.Options{Quality: webpQuality}); err != nil {
		return "", models.NewInternalError(err)
	}

	return s.writeObject(bucket, userID, buf.Bytes(), "webp")
}

// saveRaw writes a payload without transcoding. Used for video containers.
func (s *Store) saveRaw(bucket string, userID uint, content []byte, ext string) (string, error) {
	return s.writeObject(bucket, userID, content, ext)
}

// writeObject persists the object at {root}/{bucket}/{user_id}/{ts}.{ext} and
// returns its URL under the store's base path.
func (s *Store) writeObject(bucket string, userID uint, content []byte, ext string) (string, error) {
	rel := filepath.Join(bucket, fmt.Sprintf("%d", userID), fmt.Sprintf("%d.%s", s.now().UnixNano(), ext))
	abs := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(abs, content, 0o600); err != nil {
		return "", models.NewInternalError(err)
	}

	return s.baseURL + "/" + filepath.ToSlash(rel), nil
}

// Remove deletes a stored object given its public URL. Unknown or foreign
// URLs are ignored.
func (s *Store) Remove(url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil
	}
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(s.root, rel)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
