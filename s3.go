// S3 transport for sources published as s3://bucket/key rather than https.

package awhina

import (
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// DefaultS3Region is where the NOAA Big Data Program buckets live.
var DefaultS3Region = "us-east-1"

type s3API interface {
	HeadObject(input *s3.HeadObjectInput) (*s3.HeadObjectOutput, error)
	GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error)
}

// newS3Client can be modified by external for testing
var newS3Client = newAwsS3Client

func newAwsS3Client(region string) s3API {
	// The model-output buckets are public; anonymous credentials avoid
	// requiring an AWS profile on the host.
	ssn := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.AnonymousCredentials,
	}))
	return s3.New(ssn)
}

// parseS3URL splits s3://bucket/key into its parts.
func parseS3URL(rawURL string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(rawURL, "s3://")
	if trimmed == rawURL {
		return "", "", errors.Errorf("not an s3 URL: %s", rawURL)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("malformed s3 URL: %s", rawURL)
	}
	return parts[0], parts[1], nil
}

type s3Prober struct {
	client s3API
}

func newS3Prober() *s3Prober {
	return &s3Prober{client: newS3Client(DefaultS3Region)}
}

func (p *s3Prober) head(rawURL string) (*s3.HeadObjectOutput, error) {
	bucket, key, err := parseS3URL(rawURL)
	if err != nil {
		return nil, err
	}

	out, err := p.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			// HeadObject reports a missing key as bare "NotFound".
			if aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey {
				return nil, nil
			}
		}
		return nil, errors.WithMessagef(ErrTransfer, "head s3 object %s: %v", rawURL, err)
	}
	return out, nil
}

func (p *s3Prober) CheckGrib(rawURL string, minSize int64) (bool, error) {
	out, err := p.head(rawURL)
	if err != nil || out == nil {
		return false, err
	}
	return aws.Int64Value(out.ContentLength) > minSize, nil
}

func (p *s3Prober) CheckIdx(rawURL string) (bool, error) {
	out, err := p.head(rawURL)
	if err != nil {
		return false, err
	}
	return out != nil, nil
}

// Ping is a no-op: S3 endpoints do not need the warm-up that the flaky
// archive gateways do.
func (p *s3Prober) Ping(string) error { return nil }

type s3Fetcher struct {
	client s3API
}

func newS3Fetcher() *s3Fetcher {
	return &s3Fetcher{client: newS3Client(DefaultS3Region)}
}

func (f *s3Fetcher) get(rawURL string, byteRange string) (*s3.GetObjectOutput, error) {
	bucket, key, err := parseS3URL(rawURL)
	if err != nil {
		return nil, err
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if byteRange != "" {
		input.Range = aws.String("bytes=" + byteRange)
	}

	out, err := f.client.GetObject(input)
	if err != nil {
		return nil, errors.WithMessagef(ErrTransfer, "get s3 object %s: %v", rawURL, err)
	}
	return out, nil
}

func (f *s3Fetcher) FetchAll(rawURL string, w io.Writer) (int64, error) {
	out, err := f.get(rawURL, "")
	if err != nil {
		return 0, err
	}
	defer out.Body.Close()

	n, err := io.Copy(w, &progressReader{
		r:     out.Body,
		total: aws.Int64Value(out.ContentLength),
		url:   rawURL,
	})
	if err != nil {
		return n, errors.WithMessagef(ErrTransfer, "read s3 object %s: %v", rawURL, err)
	}
	return n, nil
}

func (f *s3Fetcher) FetchRange(rawURL string, byteRange string, w io.Writer) (int64, error) {
	out, err := f.get(rawURL, byteRange)
	if err != nil {
		return 0, err
	}
	defer out.Body.Close()

	n, err := io.Copy(w, out.Body)
	if err != nil {
		return n, errors.WithMessagef(ErrTransfer, "read s3 object %s range %s: %v", rawURL, byteRange, err)
	}
	return n, nil
}

// fetchS3IndexText retrieves index text stored alongside a grib object.
func fetchS3IndexText(rawURL string) (string, error) {
	f := newS3Fetcher()
	out, err := f.get(rawURL, "")
	if err != nil {
		return "", errors.WithMessagef(ErrNotFound, "index %s: %v", rawURL, err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return "", errors.WithMessagef(ErrTransfer, "read index %s: %v", rawURL, err)
	}
	return string(raw), nil
}
