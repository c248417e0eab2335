// Copyright 2025 Knowledge Graph Hub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package s3 implements the blob.Store interface on Amazon S3.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/Knowledge-Graph-Hub/obo2kghub/blob"
)

// api is the slice of the AWS S3 surface this store needs. Narrowing the
// dependency keeps the store mockable in tests.
type api interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store is an S3-backed blob store.
type Store struct {
	client api
}

// Option configures a Store during construction.
type Option func(*settings)

type settings struct {
	region   string
	endpoint string
}

// WithRegion overrides the region from the default credential chain.
func WithRegion(region string) Option {
	return func(s *settings) { s.region = region }
}

// WithEndpoint points the store at a custom S3-compatible endpoint.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) { s.endpoint = endpoint }
}

// New creates an S3 store using the default AWS credential chain.
func New(ctx context.Context, opts ...Option) (blob.Store, error) {
	var st settings
	for _, opt := range opts {
		opt(&st)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}
	if st.region != "" {
		cfg.Region = st.region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	var s3Opts []func(*s3.Options)
	if st.endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(st.endpoint)
			o.UsePathStyle = true
		})
	}

	return &Store{client: s3.NewFromConfig(cfg, s3Opts...)}, nil
}

// NewWithClient creates a store around an existing S3 API implementation.
// Used by tests with mocked clients.
func NewWithClient(client api) *Store {
	return &Store{client: client}
}

// Exists reports whether an object is present at bucket/key.
func (s *Store) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if err := validate(bucket, key); err != nil {
		return false, err
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head s3://%s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// Put writes data to bucket/key.
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, public bool) error {
	if err := validate(bucket, key); err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(detectContentType(key, data)),
	}
	if public {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// PutFile uploads the file at localPath to bucket/key.
func (s *Store) PutFile(ctx context.Context, bucket, key, localPath string, public bool) error {
	if err := validate(bucket, key); err != nil {
		return err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := f.Read(head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding %s: %w", localPath, err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(detectContentType(localPath, head[:n])),
	}
	if public {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// Get downloads the object at bucket/key to localPath.
func (s *Store) Get(ctx context.Context, bucket, key, localPath string) error {
	if err := validate(bucket, key); err != nil {
		return err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("get s3://%s/%s: %w", bucket, key, blob.ErrNotFound)
		}
		return fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(localPath), err)
	}

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", localPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		return fmt.Errorf("writing %s: %w", localPath, err)
	}
	return nil
}

func validate(bucket, key string) error {
	if bucket == "" {
		return blob.ErrEmptyBucket
	}
	if key == "" {
		return blob.ErrEmptyKey
	}
	return nil
}

// isNotFound matches both the HeadObject NotFound shape and the
// GetObject NoSuchKey shape.
func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "NotFound") || strings.Contains(msg, "NoSuchKey")
}

// detectContentType maps the extensions this pipeline publishes and
// sniffs content for anything else.
func detectContentType(path string, head []byte) string {
	switch filepath.Ext(path) {
	case ".tsv":
		return "text/tab-separated-values"
	case ".json", ".jsonl":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".html":
		return "text/html"
	case ".owl":
		return "application/rdf+xml"
	}
	if len(head) > 0 {
		if mt := mimetype.Detect(head); mt != nil {
			return mt.String()
		}
	}
	return "application/octet-stream"
}
