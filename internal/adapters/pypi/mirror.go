package pypi

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/schollz/progressbar/v3"
	"go.trai.ch/zerr"

	"github.com/droidrun/depbuilder/internal/core/domain"
	"github.com/droidrun/depbuilder/internal/core/ports"
)

// MirrorConfig holds the connection parameters for an S3-compatible
// prebuilt wheel mirror such as Cloudflare R2.
type MirrorConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

// Mirror implements ports.WheelIndex over an S3-compatible bucket whose
// keys are wheel filenames under an optional prefix.
type Mirror struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewMirror creates a mirror client.
func NewMirror(ctx context.Context, cfg MirrorConfig) (*Mirror, error) {
	if cfg.Bucket == "" || cfg.Endpoint == "" {
		return nil, zerr.New("mirror requires a bucket and an endpoint")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	resolver := aws.EndpointResolverWithOptionsFunc(
		func(_, _ string, _ ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: cfg.Endpoint}, nil
		})

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load mirror config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &Mirror{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

var _ ports.WheelIndex = (*Mirror)(nil)

// Name identifies the index in logs.
func (m *Mirror) Name() string {
	return "mirror"
}

// FindWheel lists the bucket under the package's filename prefix and
// returns the newest compatible wheel.
func (m *Mirror) FindWheel(ctx context.Context, spec domain.PackageSpec, platform domain.Platform) (*domain.RemoteWheel, error) {
	constraint, err := domain.ParseConstraint(spec.Constraint)
	if err != nil {
		return nil, err
	}

	keyPrefix := path.Join(m.prefix, domain.WheelNamePrefix(spec.Name))

	var best *domain.RemoteWheel
	paginator := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(keyPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, zerr.With(errors.Join(domain.ErrArtifactNotFound, err), "package", spec.Name)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			wheel, err := domain.ParseWheelFilename(path.Base(key))
			if err != nil {
				continue
			}
			if wheel.Name != spec.Name || !wheel.Compatible(platform) {
				continue
			}
			if !constraint.Matches(wheel.Version) {
				continue
			}
			if best != nil && domain.CompareVersions(wheel.Version, best.Version) <= 0 {
				continue
			}
			best = &domain.RemoteWheel{
				Name:     spec.Name,
				Version:  wheel.Version,
				Filename: wheel.Filename,
				URL:      key,
				Size:     aws.ToInt64(obj.Size),
			}
		}
	}

	if best == nil {
		return nil, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrArtifactNotFound, "no compatible wheel in bucket"),
			"package", spec.Name),
			"index", m.Name())
	}
	return best, nil
}

// Download fetches the wheel object into destDir. The wheel's URL field
// carries the object key.
func (m *Mirror) Download(ctx context.Context, wheel *domain.RemoteWheel, destDir string) (string, error) {
	output, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(wheel.URL),
	})
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "wheel", wheel.Filename)
	}
	defer output.Body.Close()

	if err := os.MkdirAll(destDir, domain.DirPerm); err != nil {
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "dir", destDir)
	}

	dest := filepath.Join(destDir, wheel.Filename)
	//nolint:gosec // destination is the trusted wheel cache
	f, err := os.Create(dest)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "path", dest)
	}

	bar := progressbar.DefaultBytes(wheel.Size, "downloading "+wheel.Filename)
	_, err = io.Copy(io.MultiWriter(f, bar), output.Body)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return "", zerr.With(errors.Join(domain.ErrFetchFailed, err), "wheel", wheel.Filename)
	}
	return dest, nil
}
