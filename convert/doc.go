// Copyright 2025 Knowledge Graph Hub
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

// Package convert defines the graph conversion capability and the
// dispatcher that fans one artifact out to every requested encoding.
//
// The conversion algorithm itself is external: the exec subpackage
// shells out to a converter command and intercepts its warning stream,
// and the mock subpackage provides a scripted converter for tests and
// mock mode.
package convert
