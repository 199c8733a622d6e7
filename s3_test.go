package awhina

import (
	"bytes"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3 answers HeadObject/GetObject from an in-memory object map and keeps
// the inputs it saw.
type mockS3 struct {
	objects map[string][]byte // "bucket/key" -> body
	heads   []*s3.HeadObjectInput
	gets    []*s3.GetObjectInput
}

func (m *mockS3) lookup(bucket, key *string) ([]byte, bool) {
	body, ok := m.objects[aws.StringValue(bucket)+"/"+aws.StringValue(key)]
	return body, ok
}

func (m *mockS3) HeadObject(input *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	m.heads = append(m.heads, input)
	body, ok := m.lookup(input.Bucket, input.Key)
	if !ok {
		return nil, awserr.New("NotFound", "Not Found", nil)
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(body)))}, nil
}

func (m *mockS3) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	m.gets = append(m.gets, input)
	body, ok := m.lookup(input.Bucket, input.Key)
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func useMockS3(t *testing.T, m *mockS3) {
	old := newS3Client
	newS3Client = func(string) s3API { return m }
	t.Cleanup(func() { newS3Client = old })
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://noaa-hrrr-bdp-pds/hrrr.20220126/conus/f.grib2")
	require.NoError(t, err)
	assert.Equal(t, "noaa-hrrr-bdp-pds", bucket)
	assert.Equal(t, "hrrr.20220126/conus/f.grib2", key)

	for _, bad := range []string{"https://example.com/f", "s3://bucketonly", "s3://"} {
		_, _, err := parseS3URL(bad)
		assert.Error(t, err, bad)
	}
}

func TestS3ProberCheckGrib(t *testing.T) {
	m := &mockS3{objects: map[string][]byte{
		"b/big.grib2":  bytes.Repeat([]byte{0}, 100),
		"b/stub.grib2": {0, 1, 2},
	}}
	useMockS3(t, m)
	p := newS3Prober()

	ok, err := p.CheckGrib("s3://b/big.grib2", 50)
	require.NoError(t, err)
	assert.True(t, ok)

	// Present but implausibly small: treated as absent.
	ok, err = p.CheckGrib("s3://b/stub.grib2", 50)
	require.NoError(t, err)
	assert.False(t, ok)

	// A missing key is a clean miss, not an error.
	ok, err = p.CheckGrib("s3://b/none.grib2", 50)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3ProberCheckIdx(t *testing.T) {
	m := &mockS3{objects: map[string][]byte{"b/f.grib2.idx": []byte("1:0:")}}
	useMockS3(t, m)
	p := newS3Prober()

	ok, err := p.CheckIdx("s3://b/f.grib2.idx")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.CheckIdx("s3://b/missing.idx")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3FetcherFetchRangeSetsRangeHeader(t *testing.T) {
	m := &mockS3{objects: map[string][]byte{"b/f.grib2": []byte("payload")}}
	useMockS3(t, m)
	f := newS3Fetcher()

	var buf bytes.Buffer
	_, err := f.FetchRange("s3://b/f.grib2", "0-99", &buf)
	require.NoError(t, err)

	require.Len(t, m.gets, 1)
	assert.Equal(t, "bytes=0-99", aws.StringValue(m.gets[0].Range))
}

func TestS3FetcherFetchAll(t *testing.T) {
	m := &mockS3{objects: map[string][]byte{"b/f.grib2": []byte("payload")}}
	useMockS3(t, m)
	f := newS3Fetcher()

	var buf bytes.Buffer
	n, err := f.FetchAll("s3://b/f.grib2", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "payload", buf.String())
	require.Len(t, m.gets, 1)
	assert.Nil(t, m.gets[0].Range)
}

func TestFetchS3IndexText(t *testing.T) {
	m := &mockS3{objects: map[string][]byte{"b/f.grib2.idx": []byte(wgrib2IndexText)}}
	useMockS3(t, m)

	text, err := fetchS3IndexText("s3://b/f.grib2.idx")
	require.NoError(t, err)
	assert.Equal(t, wgrib2IndexText, text)
}
