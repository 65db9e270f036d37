// Package objstore offloads recorded uploads to object storage behind a
// narrow contract: store bytes or a local file under a key and get back a
// public URL, delete by key, check existence.
//
// Two backends are provided. Local writes into a base directory on an
// afero filesystem and serves URLs from a configured prefix; S3 targets
// Amazon S3 and S3-compatible services (MinIO, Wasabi) through the AWS SDK,
// with API errors classified into the package's sentinel errors.
//
// The ingestion pipeline calls into this package only after an entry has
// been fully recorded; nothing here participates in validation or naming.
package objstore
