package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_MapToWireError(t *testing.T) {
	req := require.New(t)

	req.Equal(400, MapToWireError(fmt.Errorf("%w: content is blank", ErrValidation)).Code)
	req.Equal(401, MapToWireError(ErrInvalidCredentials).Code)
	req.Equal(403, MapToWireError(ErrAuthorization).Code)
	req.Equal(409, MapToWireError(ErrUserAlreadyExists).Code)
	req.Equal(500, MapToWireError(fmt.Errorf("disk on fire")).Code)
}

func Test_NotFound_Indistinguishable_From_Authorization(t *testing.T) {
	req := require.New(t)

	// A non-member probing for existence learns nothing from the error shape
	notFound := MapToWireError(ErrNotFound)
	denied := MapToWireError(ErrAuthorization)
	req.Equal(denied, notFound)
}

func Test_Internal_Errors_Are_Opaque(t *testing.T) {
	req := require.New(t)

	wireErr := MapToWireError(fmt.Errorf("%w: badger: level 0 tables full", ErrPersistence))
	req.Equal(500, wireErr.Code)
	req.NotContains(wireErr.Message, "badger")
}
