package levels

import "codeberg.org/mutker/airnode/internal/errors"

const (
	ErrInvalidBands = errors.ErrorCode("levels_invalid_band_table")
	ErrRenderFailed = errors.ErrorCode("levels_render_failed")
)
