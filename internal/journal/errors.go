package journal

import "codeberg.org/mutker/airnode/internal/errors"

const (
	ErrInvalidConfig    = errors.ErrorCode("journal_invalid_config")
	ErrInvalidDBPath    = errors.ErrorCode("journal_invalid_db_path")
	ErrInvalidSnapshot  = errors.ErrorCode("journal_invalid_snapshot")
	ErrStorageInit      = errors.ErrorCode("journal_storage_init_failed")
	ErrStorageAccess    = errors.ErrorCode("journal_storage_access_failed")
	ErrStorageClose     = errors.ErrorCode("journal_storage_close_failed")
	ErrOperationTimeout = errors.ErrorCode("journal_operation_timeout")
)
