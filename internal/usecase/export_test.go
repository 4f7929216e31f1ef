package usecase

import "time"

// SetNow overrides the clock used for OTP expiry.
func (uc *PasswordResetUseCase) SetNow(now func() time.Time) { uc.now = now }

// SetDispatch replaces the background runner for reset emails.
func (uc *PasswordResetUseCase) SetDispatch(dispatch func(func())) { uc.dispatch = dispatch }

func (uc *AdminUseCase) SetNow(now func() time.Time) { uc.now = now }
