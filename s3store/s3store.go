/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 *
 * Package s3store keeps league artifacts in Amazon S3: it backs the
 * httpcache.Cache used when fetching remote result sheets, and it publishes
 * rendered standings reports. The cache half descends from
 * github.com/sourcegraph/s3cache.
 */
package s3store

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
)

const (
	cachePrefix   = "httpcache"
	reportsPrefix = "reports"
)

// Store reads and writes objects under one bucket and key prefix.
type Store struct {
	// Client is created by Init from the default AWS configuration; callers
	// may replace it afterwards.
	Client *s3.Client

	bucket string
	prefix string

	// gzip compresses cache entries; their keys get a ".gz" suffix.
	gzip bool

	log logrus.FieldLogger

	// httpcache.Cache has no context parameter, so cache calls use this one
	ctx context.Context
}

// New returns a Store for bucket. Init must be called before use.
func New(ctx context.Context, bucket string, prefix string, gzip bool,
	logger logrus.FieldLogger) *Store {

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Store{
		ctx:    ctx,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		gzip:   gzip,
		log:    logger,
	}
}

// Init loads the default AWS configuration (environment, shared config and
// credentials files) and checks that the bucket can be reached and listed.
func (s *Store) Init() error {
	if s.bucket == "" {
		return errors.New("s3store.init: no bucket configured")
	}

	cfg, err := config.LoadDefaultConfig(s.ctx)
	if err != nil {
		return fmt.Errorf("s3store.init: failed to load AWS config: %w", err)
	}
	s.Client = s3.NewFromConfig(cfg)

	if _, err = s.Client.HeadBucket(s.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	}); err != nil {
		return fmt.Errorf("s3store.init: head bucket failed for %s: %w", s.bucket, err)
	}
	if _, err = s.Client.ListObjectsV2(s.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.objectKey(cachePrefix)),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3store.init: list objects failed for %s: %w", s.bucket, err)
	}

	return nil
}

// Get implements httpcache.Cache.
func (s *Store) Get(key string) ([]byte, bool) {
	objKey := s.cacheObjectKey(key)
	resp, err := s.Client.GetObject(s.ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		// NoSuchKey is an ordinary miss
		if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey") {
			s.log.WithError(err).WithField("key", objKey).
				Warn("s3store.get: failed to get object")
		}
		return nil, false
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if s.gzip {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			s.log.WithError(err).WithField("key", objKey).
				Warn("s3store.get: failed to open compressed object")
			return nil, false
		}
		defer gz.Close()
		rdr = gz
	}

	data, err := io.ReadAll(rdr)
	if err != nil {
		s.log.WithError(err).WithField("key", objKey).
			Warn("s3store.get: failed to read object")
		return nil, false
	}

	return data, true
}

// Set implements httpcache.Cache.
func (s *Store) Set(key string, data []byte) {
	objKey := s.cacheObjectKey(key)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
		Body:   bytes.NewReader(data),
	}

	if s.gzip {
		compressed, err := gzipBytes(data)
		if err != nil {
			s.log.WithError(err).WithField("key", objKey).
				Warn("s3store.set: failed to compress entry")
			return
		}
		input.Body = bytes.NewReader(compressed)
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := s.Client.PutObject(s.ctx, input); err != nil {
		s.log.WithError(err).WithField("key", objKey).
			Warn("s3store.set: put failed")
	}
}

// Delete implements httpcache.Cache.
func (s *Store) Delete(key string) {
	objKey := s.cacheObjectKey(key)
	_, err := s.Client.DeleteObject(s.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		s.log.WithError(err).WithField("key", objKey).
			Warn("s3store.delete: delete failed")
	}
}

// Publish uploads a rendered report and returns its s3:// location.
func (s *Store) Publish(ctx context.Context, name string, body []byte,
	contentType string) (string, error) {

	if name == "" {
		return "", errors.New("s3store.publish: empty report name")
	}
	objKey := s.objectKey(reportsPrefix, path.Base(name))

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3store.publish: put %v failed: %w", objKey, err)
	}

	loc := fmt.Sprintf("s3://%v/%v", s.bucket, objKey)
	s.log.WithField("location", loc).Info("s3store.publish: report uploaded")

	return loc, nil
}

func (s *Store) cacheObjectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	objKey := s.objectKey(cachePrefix, hex.EncodeToString(h.Sum(nil)))
	if s.gzip {
		objKey += ".gz"
	}

	return objKey
}

func (s *Store) objectKey(parts ...string) string {
	if s.prefix != "" {
		parts = append([]string{s.prefix}, parts...)
	}
	return path.Join(parts...)
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
