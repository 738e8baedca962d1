// Copyright 2026 The processing-go Authors
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

package process

// State carries the position of the current item in the containment tree.
//
// IDChain is the ordered sequence of content fingerprints from the root
// input down to the current item; the root has an empty chain. State values
// are cloned forward and never shared mutably.
type State struct {
	IDChain []string
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	chain := make([]string, len(s.IDChain))
	copy(chain, s.IDChain)
	return State{IDChain: chain}
}

// Child returns the state of a child item: the current chain extended by the
// child's fingerprint. The receiver is left untouched.
func (s State) Child(fingerprint string) State {
	chain := make([]string, 0, len(s.IDChain)+1)
	chain = append(chain, s.IDChain...)
	chain = append(chain, fingerprint)
	return State{IDChain: chain}
}
