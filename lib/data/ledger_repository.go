package data

import (
	"auth0cleanup/lib/constants"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
)

// ErrObjectNotFound marks a read of a ledger object that does not exist yet.
var ErrObjectNotFound = errors.New("object not found")

const byteOrderMark = "\ufeff"

// LedgerRepository appends audit rows to the CSV ledger object.
type LedgerRepository interface {
	// AppendRows adds pre-formatted, newline-terminated rows to the end of the ledger,
	// writing the header first when the object does not start with it.
	AppendRows(ctx context.Context, bucket, key string, rows []string) error
}

type S3ClientInterface interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// LedgerDao implements LedgerRepository as a read-modify-write of a single S3 object.
// The object has no locking or conditional write, so concurrent appends to the
// same key can lose rows.
type LedgerDao struct {
	S3     S3ClientInterface
	Logger *logrus.Logger
}

func (dao *LedgerDao) AppendRows(ctx context.Context, bucket, key string, rows []string) error {
	if len(rows) == 0 {
		return nil
	}

	current, err := dao.readObject(ctx, bucket, key)
	if errors.Is(err, ErrObjectNotFound) {
		dao.Logger.WithFields(logrus.Fields{
			"operation": "AppendRows",
			"bucket":    bucket,
			"key":       key,
		}).Info("Ledger object does not exist yet, starting a new one")
		current = ""
	} else if err != nil {
		return fmt.Errorf("failed to read ledger s3://%s/%s: %w", bucket, key, err)
	}

	content := AppendLedgerContent(current, rows)

	_, err = dao.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(content),
		ContentType: aws.String(constants.CSV_CONTENT_TYPE),
	})
	if err != nil {
		return fmt.Errorf("failed to write ledger s3://%s/%s: %w", bucket, key, err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation": "AppendRows",
		"bucket":    bucket,
		"key":       key,
		"rows":      len(rows),
	}).Info("Appended rows to ledger")

	return nil
}

func (dao *LedgerDao) readObject(ctx context.Context, bucket, key string) (string, error) {
	output, err := dao.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if IsNotFound(err) {
			return "", fmt.Errorf("%w: %v", ErrObjectNotFound, err)
		}
		return "", err
	}
	defer output.Body.Close()

	body, err := io.ReadAll(output.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read object body: %w", err)
	}
	return string(body), nil
}

// IsNotFound reports whether an S3 error means the object (or its bucket key) does not exist.
func IsNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}

	return false
}

// HasLedgerHeader reports whether the first line of content is the canonical header,
// compared case-insensitively and ignoring a leading byte-order mark.
func HasLedgerHeader(content string) bool {
	firstLine := content
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		firstLine = content[:idx]
	}
	firstLine = strings.TrimSuffix(firstLine, "\r")
	firstLine = strings.TrimPrefix(firstLine, byteOrderMark)
	return strings.EqualFold(firstLine, constants.CSV_HEADER)
}

// AppendLedgerContent returns the ledger content after appending rows to current.
// Existing content is never re-parsed; it is only prefixed with the header when missing.
func AppendLedgerContent(current string, rows []string) string {
	var b strings.Builder

	if !HasLedgerHeader(current) {
		b.WriteString(constants.CSV_HEADER)
		b.WriteString("\n")
	}

	b.WriteString(current)
	if current != "" && !strings.HasSuffix(current, "\n") {
		b.WriteString("\n")
	}

	for _, row := range rows {
		b.WriteString(row)
	}

	return b.String()
}
