package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	MaxFileSize   = 20 * 1024 * 1024 // 20MB
	DefaultBucket = "terracrud-media"
	DefaultRegion = "eu-west-3"
)

var (
	s3Client   *s3.Client
	bucketName = DefaultBucket
	regionName = DefaultRegion
)

// Configure sets the bucket and region used for object URLs. Empty values
// keep the defaults.
func Configure(bucket, region string) {
	if bucket != "" {
		bucketName = bucket
	}
	if region != "" {
		regionName = region
	}
}

func InitStorage(bucket, region string) error {
	Configure(bucket, region)

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(regionName),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
	return nil
}

// ObjectURL returns the public URL of an object key in the configured bucket.
func ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, regionName, key)
}

// AttachmentKey builds the object key for a feature attachment.
func AttachmentKey(featureID uint, filename string) string {
	return fmt.Sprintf("features/%d/attachments/%d_%s",
		featureID, time.Now().Unix(), filepath.Base(filename))
}

// PictureKey builds the object key for a feature picture.
func PictureKey(featureID uint, filename string) string {
	return fmt.Sprintf("features/%d/pictures/%d_%s",
		featureID, time.Now().Unix(), filepath.Base(filename))
}

// PictogramKey builds the object key for a menu/group/view pictogram.
func PictogramKey(kind string, filename string) string {
	return fmt.Sprintf("pictograms/%s/%d_%s",
		kind, time.Now().Unix(), filepath.Base(filename))
}

// UploadFile uploads an arbitrary attachment and returns its public URL.
func UploadFile(file *multipart.FileHeader, key string) (string, error) {
	if file.Size > MaxFileSize {
		return "", fmt.Errorf("file size too large. Maximum size is %d bytes", MaxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(src); err != nil {
		return "", err
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return UploadBytes(buf, contentType, key)
}

// UploadBytes uploads an in-memory object and returns its public URL.
func UploadBytes(buf *bytes.Buffer, contentType, key string) (string, error) {
	_, err := s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload to S3: %v", err)
	}

	return ObjectURL(key), nil
}

// DeleteFile removes an object given its public URL.
func DeleteFile(fileURL string) error {
	parts := strings.Split(fileURL, "/")
	key := strings.Join(parts[3:], "/")

	_, err := s3Client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})

	return err
}
