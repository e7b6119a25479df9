package baseline

import "codeberg.org/mutker/airnode/internal/errors"

const (
	ErrRestoreFailed = errors.ErrorCode("baseline_restore_failed")
	ErrStorageOpen   = errors.ErrorCode("baseline_storage_open_failed")
	ErrStorageRead   = errors.ErrorCode("baseline_storage_read_failed")
	ErrStorageWrite  = errors.ErrorCode("baseline_storage_write_failed")
	ErrStorageCommit = errors.ErrorCode("baseline_storage_commit_failed")
	ErrRegionBounds  = errors.ErrorCode("baseline_region_out_of_bounds")
)
