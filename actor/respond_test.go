package actor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondTokenIsWriteOnce(t *testing.T) {
	t.Parallel()

	token, fut := NewRespondToken[int](context.Background())
	token.Respond(1)

	// Later completions, by any path, are no-ops.
	token.Respond(2)
	token.RespondErr(errors.New("too late"))
	token.Close()

	v, err := fut.Await(context.Background()).Unpack()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestRespondTokenCloseYieldsDisconnected(t *testing.T) {
	t.Parallel()

	token, fut := NewRespondToken[int](context.Background())

	// A token dropped without a reply must fail the caller, never hang.
	token.Close()

	_, err := fut.Await(context.Background()).Unpack()
	require.ErrorIs(t, err, ErrDisconnected)
}

func TestRespondTokenErrWrapsDomainError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	token, fut := NewRespondToken[int](context.Background())
	token.RespondErr(boom)

	_, err := fut.Await(context.Background()).Unpack()
	require.ErrorIs(t, err, boom)

	var other *OtherError
	require.ErrorAs(t, err, &other)
}

func TestRespondTokenCarriesCallerContext(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "caller")

	token, _ := NewRespondToken[int](ctx)
	require.Equal(t, "caller", token.Context().Value(ctxKey{}))
	require.NotEqual(t, [16]byte{}, [16]byte(token.ID()))
}
