// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package task_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/task"
)

func TestStartRunsToSuccess(t *testing.T) {
	l := task.NewLoop()
	rec := &recorder{}
	body := &scriptBody{yields: []any{1, 2}, ret: "done"}

	inst := task.New(l, rec, body)
	v, err := task.Exec(l, inst)
	if err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if v != "done" {
		t.Fatalf("got %v, want %q", v, "done")
	}
	if len(rec.events) != 2 || rec.events[0] != "started" || rec.events[1] != "success" {
		t.Fatalf("events got %v, want [started success]", rec.events)
	}
	// Plain yields resume CONTINUE with the yielded value.
	if body.seen[1] != 1 || body.seen[2] != 2 {
		t.Fatalf("resume values got %v", body.seen)
	}
	st := inst.State()
	if !st.IsFinished || !st.IsSuccessful || st.IsError || st.IsCanceled {
		t.Fatalf("state got %+v", st)
	}
}

func TestStartTwiceStepsBodyOnce(t *testing.T) {
	l := task.NewLoop()
	body := &scriptBody{yields: []any{&capture{}}}

	inst := task.New(l, nil, body)
	inst.Start()
	inst.Start()
	l.Drain()
	if body.steps != 1 {
		t.Fatalf("body stepped %d times, want 1", body.steps)
	}
	if inst.State().IsFinished {
		t.Fatal("instance should be suspended")
	}
}

func TestPerformStarts(t *testing.T) {
	l := task.NewLoop()
	inst := task.Perform(l, nil, &scriptBody{ret: 9})
	if !inst.State().HasStarted {
		t.Fatal("Perform did not start the instance")
	}
	v, err := l.Wait(inst.Result())
	if err != nil || v != 9 {
		t.Fatalf("got (%v, %v), want (9, nil)", v, err)
	}
}

func TestOutcomePendingUntilFinish(t *testing.T) {
	l := task.NewLoop()
	inst := task.New(l, nil, &scriptBody{yields: []any{&capture{}}})
	if inst.Outcome().Kind != task.OutcomePending {
		t.Fatal("outcome should be pending before start")
	}
	inst.Start()
	l.Drain()
	if inst.Outcome().Kind != task.OutcomePending {
		t.Fatal("outcome should be pending while suspended")
	}
}

func TestStepErrorFinalizesError(t *testing.T) {
	l := task.NewLoop()
	rec := &recorder{}
	boom := errors.New("boom")
	body := task.Gen(func(y *task.Yielder) (any, error) {
		return nil, boom
	})

	_, err := task.Exec(l, task.New(l, rec, body))
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if len(rec.events) != 2 || rec.events[1] != "error" {
		t.Fatalf("events got %v", rec.events)
	}
	if task.IsCancelError(err) {
		t.Fatal("step failure must not classify as cancellation")
	}
}

type panicBody struct{}

func (panicBody) Step(any, task.ResumeKind) task.StepResult {
	panic("kaboom")
}

func TestBodyPanicFinalizesError(t *testing.T) {
	l := task.NewLoop()
	inst := task.New(l, nil, panicBody{})
	_, err := task.Exec(l, inst)
	if err == nil {
		t.Fatal("expected error outcome")
	}
	if !inst.State().IsError {
		t.Fatalf("state got %+v", inst.State())
	}
}

func TestSerialsIncrease(t *testing.T) {
	l := task.NewLoop()
	a := task.New(l, nil, &scriptBody{})
	b := task.New(l, nil, &scriptBody{})
	if b.Serial() <= a.Serial() {
		t.Fatalf("serials not increasing: %d then %d", a.Serial(), b.Serial())
	}
}
