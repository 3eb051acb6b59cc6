package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestMessageFallsBackToCode() {
	s.Equal("trailer not found", New(CodeNotFound, "trailer not found").Error())
	s.Equal("not_found", (&Error{Code: CodeNotFound}).Error())
	s.Equal("plate TRK-100 is taken", Newf(CodeConflict, "plate %s is taken", "TRK-100").Error())
}

func (s *DomainErrorsSuite) TestIsComparesCodes() {
	cause := New(CodeNotFound, "driver not found")
	chain := fmt.Errorf("load fleet set: %w", Wrap(cause, CodeInternal, "resolve driver"))

	s.True(errors.Is(chain, &Error{Code: CodeNotFound}))
	s.False(errors.Is(chain, &Error{Code: CodeConflict}))
	s.False((&Error{Code: CodeNotFound}).Is(errors.New("not_found")))
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("keeps an inner code", func() {
		wrapped := Wrap(New(CodeForbidden, "no membership"), CodeInternal, "resolve session")
		var e *Error
		s.Require().True(errors.As(wrapped, &e))
		s.Equal(CodeForbidden, e.Code)
		s.Equal("resolve session", e.Message)
	})

	s.Run("codes a plain error", func() {
		root := errors.New("connection reset")
		wrapped := Wrap(root, CodeUnavailable, "flespi unreachable")
		s.Equal(CodeUnavailable, CodeOf(wrapped))
		s.ErrorIs(wrapped, root)
	})
}

func (s *DomainErrorsSuite) TestWrapAs() {
	inner := New(CodeBadRequest, "invalid user id")
	wrapped := WrapAs(fmt.Errorf("user_id claim: %w", inner), CodeUnauthorized, "Invalid or expired token")

	s.Equal(CodeUnauthorized, CodeOf(wrapped))
	s.True(HasCode(wrapped, CodeUnauthorized))
	s.ErrorIs(wrapped, inner)
	s.Equal("Invalid or expired token", wrapped.(*Error).Message)
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(Code(""), CodeOf(nil))
	s.Equal(CodeInternal, CodeOf(errors.New("boom")))
	s.Equal(CodeRateLimited, CodeOf(fmt.Errorf("sign in: %w", New(CodeRateLimited, "slow down"))))
}

func (s *DomainErrorsSuite) TestHasCode() {
	err := Wrap(New(CodeUnauthorized, "refresh token revoked"), CodeInternal, "refresh")

	s.True(HasCode(err, CodeUnauthorized))
	s.False(HasCode(err, CodeInternal))
	s.False(HasCode(errors.New("plain"), CodeInternal))
	s.False(HasCode(nil, CodeNotFound))

	s.True(HasAnyCode(err, CodeBadRequest, CodeUnauthorized))
	s.False(HasAnyCode(err))
	s.False(HasAnyCode(errors.New("plain"), CodeInternal))
}
