package manifest

import (
	"context"
	"fmt"
	"os"
)

// Open selects a Store implementation using environment variables.
//
//	SLOTGATE_MANIFEST_DRIVER: fs|s3|memory (default fs)
//	SLOTGATE_MANIFEST_FS_ROOT: directory root when driver=fs (default ./manifestdata)
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("SLOTGATE_MANIFEST_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("SLOTGATE_MANIFEST_FS_ROOT"))
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown manifest driver %s", driver)
	}
}
