// Copyright 2024 The CFT Authors
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

package stack

import "testing"

func TestPushPopTop(t *testing.T) {
	s := New(4)
	if s.Top() != nil {
		t.Fatalf("Top() on empty stack = %v; want nil", s.Top())
	}
	if err := s.Push(Frame{MapPath: "/"}); err != nil {
		t.Fatalf("Push() = %v", err)
	}
	if got := s.Top(); got == nil || got.MapPath != "/" {
		t.Fatalf("Top() = %v; want MapPath /", got)
	}
	if s.Depth() != 1 {
		t.Fatalf("Depth() = %d; want 1", s.Depth())
	}
	s.Pop()
	if !s.Empty() {
		t.Fatalf("Empty() = false after popping only frame")
	}
}

func TestPushBeyondCapacity(t *testing.T) {
	s := New(2)
	if err := s.Push(Frame{}); err != nil {
		t.Fatalf("Push() = %v", err)
	}
	if err := s.Push(Frame{}); err != nil {
		t.Fatalf("Push() = %v", err)
	}
	err := s.Push(Frame{})
	if err == nil {
		t.Fatalf("Push() beyond capacity should fail")
	}
	if _, ok := err.(*ErrStackFull); !ok {
		t.Fatalf("Push() error = %T; want *ErrStackFull", err)
	}
}

func TestFrameFull(t *testing.T) {
	f := Frame{DeclaredSize: 2, PairIndex: 1}
	if f.Full() {
		t.Fatalf("Full() = true before all pairs consumed")
	}
	f.PairIndex = 2
	if !f.Full() {
		t.Fatalf("Full() = false after all pairs consumed")
	}
}
