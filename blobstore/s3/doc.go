// Package s3 stores lazy-load databases in Amazon S3.
//
// # Usage
//
//	cfg, err := awsconfig.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "lazyload/")
//
// Indexes (*.rdx) can be committed through DynamoDB so that concurrent
// writers never overwrite each other:
//
//	commits := s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(cfg), "rvec-commits", "s3://my-bucket/lazyload/")
//
// # Features
//
//   - Range reads for partial fetches
//   - Streaming multipart uploads
//   - CRC32C-checked atomic puts
//   - Automatic pagination for listing
package s3
