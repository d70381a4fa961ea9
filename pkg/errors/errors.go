/*
 * Copyright (c) 2023 shenjunzheng@gmail.com
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package errors collects the sentinel errors surfaced by the build
// pipeline, plus a Stage helper for tagging them with the stage that
// produced them.
package errors

import (
	"github.com/pkg/errors"
)

var (
	// Input

	ErrInputNotFound  = errors.New("input file not found")
	ErrInputNotCSV    = errors.New("input file must have a .csv extension")
	ErrMalformedRow   = errors.New("malformed CSV row")
	ErrInvalidIPRange = errors.New("invalid IP range")

	// Encoding

	ErrPointerOverflow = errors.New("pointer target exceeds encodable range")
	ErrRecordOverflow  = errors.New("node index or data offset exceeds record width")
	ErrStringTooLong   = errors.New("string exceeds encodable length")

	// Output

	ErrOutputWrite = errors.New("failed to write output file")
)

// Stage wraps err with the name of the pipeline stage that produced it, so
// callers can see where in the five-stage build an error originated.
func Stage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "stage %s", stage)
}
