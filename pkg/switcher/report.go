// Copyright 2026 cloudygreybeard
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package switcher

import (
	"context"
	"errors"

	"github.com/cloudygreybeard/envswitch/internal/logging"
	"github.com/cloudygreybeard/envswitch/pkg/environment"
)

// alerted are the errors the user must see: rejected input and rejected
// import files. Anything else is left to the caller.
var alerted = []error{
	environment.ErrEmptyField,
	environment.ErrURLNotAllowed,
	environment.ErrDuplicateGroup,
	environment.ErrGroupNotFound,
	environment.ErrNothingToExport,
	ErrImportFailed,
}

// ReportedError is an error already shown through Prompter.Alert.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// Report shows validation and import errors through Prompter.Alert and
// returns them as *ReportedError. Other errors, and nil, pass through.
func (c *Controller) Report(ctx context.Context, err error) error {
	if err == nil || Reported(err) {
		return err
	}
	for _, target := range alerted {
		if !errors.Is(err, target) {
			continue
		}
		if aerr := c.prompt.Alert(ctx, err.Error()); aerr != nil {
			logging.Debug(subsystem, "showing alert: %v", aerr)
			return err
		}
		return &ReportedError{Err: err}
	}
	return err
}

// Reported reports whether err was already shown to the user.
func Reported(err error) bool {
	var r *ReportedError
	return errors.As(err, &r)
}
