// Package s3archive provides a post-processor that archives the change
// records of completed lifecycle operations to an S3-compatible bucket, one
// JSON document per request.
package s3archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/tendant/sparse-content/pkg/sparsecontent"
)

// Config options for the S3 archive sink
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
	KeyPrefix       string // Key prefix for archive objects (default: "changes")
	Logger          *slog.Logger
}

// Archiver is a sparsecontent.PostProcessor that writes one archive record
// per processed request.
type Archiver struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	logger   *slog.Logger
}

// archiveRecord is the JSON document written per request.
type archiveRecord struct {
	RequestID  string                       `json:"request_id"`
	Operation  string                       `json:"operation"`
	Path       string                       `json:"path"`
	ArchivedAt time.Time                    `json:"archived_at"`
	Changes    []sparsecontent.Modification `json:"changes"`
	Parameters map[string][]string          `json:"parameters,omitempty"`
}

// New creates a new S3 archive post-processor
func New(config Config) (*Archiver, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "changes"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	// Set up AWS config
	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		// Use provided credentials
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		// Use default credential chain
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Custom endpoint for S3-compatible services (MinIO, etc.)
	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	return &Archiver{
		uploader: manager.NewUploader(client),
		bucket:   config.Bucket,
		prefix:   config.KeyPrefix,
		logger:   config.Logger,
	}, nil
}

// Name implements sparsecontent.PostProcessor
func (a *Archiver) Name() string { return "s3-archive" }

// Process writes the request's change records as a JSON object under
// <prefix>/<yyyy>/<mm>/<dd>/<request-id>.json. Upload failures surface as a
// *sparsecontent.ProcessingError, which aborts the rest of the pipeline.
func (a *Archiver) Process(ctx context.Context, req *sparsecontent.RequestContext, changes []sparsecontent.Modification) error {
	record := archiveRecord{
		RequestID:  req.ID.String(),
		Operation:  req.Operation,
		Path:       req.Path,
		ArchivedAt: time.Now().UTC(),
		Changes:    changes,
		Parameters: req.Parameters,
	}

	body, err := json.Marshal(record)
	if err != nil {
		return &sparsecontent.ProcessingError{Processor: a.Name(), Op: "encode", Err: err}
	}

	key := path.Join(a.prefix, record.ArchivedAt.Format("2006/01/02"), record.RequestID+".json")

	_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			a.logger.Error("archive upload rejected",
				"bucket", a.bucket, "key", key, "code", apiErr.ErrorCode())
		}
		return &sparsecontent.ProcessingError{Processor: a.Name(), Op: "upload", Err: err}
	}

	a.logger.Info("archived change records", "bucket", a.bucket, "key", key, "changes", len(changes))
	return nil
}

var _ sparsecontent.PostProcessor = (*Archiver)(nil)
