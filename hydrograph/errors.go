// Copyright 2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hydrograph

import "errors"

var (
	ErrEmptySeries      = errors.New("series has no usable samples")
	ErrEmptyOverlap     = errors.New("series do not overlap in time")
	ErrUnorderedSamples = errors.New("samples are not strictly increasing by date")
)
