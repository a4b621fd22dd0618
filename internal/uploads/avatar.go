package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	xdraw "golang.org/x/image/draw"

	"github.com/medyosystem/medyo-golang/internal/config"
)

// MaxAvatarSize is the upload ceiling for avatar images.
const MaxAvatarSize = 5 << 20 // 5 MB

// ThumbnailSize is the edge length of the stored square avatar.
const ThumbnailSize = 200

var (
	// ErrTooLarge and ErrUnsupportedFormat are client errors (400);
	// anything else from Upload means the asset host failed (500).
	ErrTooLarge          = errors.New("file is too large, maximum size is 5MB")
	ErrUnsupportedFormat = errors.New("only JPEG, PNG and GIF images are allowed")
)

// objectPutter is the slice of the S3 client Upload needs.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AvatarStore uploads processed avatar thumbnails to an S3-compatible
// bucket and hands back the public URL to store on the user row.
type AvatarStore struct {
	client        objectPutter
	bucket        string
	publicBaseURL string
}

// NewAvatarStore builds the S3 client from the static credentials and
// endpoint in the config (MinIO in development, S3 proper otherwise).
func NewAvatarStore(cfg *config.Config) (*AvatarStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.S3PublicBaseURL
	if baseURL == "" {
		baseURL = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}

	return &AvatarStore{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload validates the image, crops/scales it to a square thumbnail and
// stores it under a fresh key. Returns the public URL of the object.
func (s *AvatarStore) Upload(ctx context.Context, fileHeader *multipart.FileHeader, owner string) (string, error) {
	if fileHeader.Size > MaxAvatarSize {
		return "", ErrTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	// Decoding both sniffs the real format (the declared Content-Type
	// is client-controlled) and rejects non-raster uploads.
	img, format, err := image.Decode(file)
	if err != nil {
		return "", ErrUnsupportedFormat
	}
	switch format {
	case "jpeg", "png", "gif":
	default:
		return "", ErrUnsupportedFormat
	}

	thumb := squareThumbnail(img, ThumbnailSize)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%s-%s.jpg", slug.Make(owner), uuid.NewString())

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("avatar upload: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}

// squareThumbnail center-crops the source to a square and scales it to
// size x size with bilinear interpolation.
func squareThumbnail(src image.Image, size int) image.Image {
	b := src.Bounds()

	edge := b.Dx()
	if b.Dy() < edge {
		edge = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-edge)/2
	y0 := b.Min.Y + (b.Dy()-edge)/2
	crop := image.Rect(x0, y0, x0+edge, y0+edge)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, crop, xdraw.Src, nil)
	return dst
}
