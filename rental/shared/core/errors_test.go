package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onelib/rentalengine/rental/shared/core"
)

func Test_CodedErrors_MatchTheirSentinel_WhateverTheirDetail(t *testing.T) {
	err := fmt.Errorf("checkout item: %w", core.OutOfStock("t-1"))

	assert.ErrorIs(t, err, core.ErrOutOfStock)
	assert.NotErrorIs(t, err, core.ErrAlreadyRequested)
	assert.Equal(t, core.CodeOutOfStock, core.Code(err))
	assert.Contains(t, err.Error(), "t-1")
}

func Test_Code_IsEmpty_WhenErrorIsNotCoded(t *testing.T) {
	assert.Equal(t, core.ErrCode(""), core.Code(errors.New("boom")))
	assert.Equal(t, core.ErrCode(""), core.Code(nil))
}

func Test_NotFound_IsSharedByTitlesAndRentals(t *testing.T) {
	assert.ErrorIs(t, core.TitleNotFound("t-1"), core.ErrNotFound)
	assert.ErrorIs(t, core.RentalNotFound("r-1"), core.ErrNotFound)
	assert.ErrorIs(t, core.InvalidTransition(core.StatusReturned, core.ActionApprove), core.ErrInvalidTransition)
}
