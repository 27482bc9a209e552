package autograd

// scope captures the previous values of the flags it changes so they can be
// restored on exit. A flag whose target pointer is nil is left untouched for
// the duration of the scope, which makes the recording and training toggles
// independently composable.
type scope struct {
	enterRecording *bool
	enterTraining  *bool
	prevRecording  bool
	prevTraining   bool
}

// enter applies the requested flag targets, capturing previous values, and
// returns the exit function. The exit function must run on every path out of
// the guarded region, so callers defer it immediately:
//
//	defer autograd.Record(true)()
//	y := model(x)
//
// On exit each changed flag is restored only when the live value differs
// from the captured previous value; nested scopes that already restored a
// flag are not flipped again.
func (s *scope) enter() func() {
	if s.enterRecording != nil {
		s.prevRecording = SetRecording(*s.enterRecording)
	}
	if s.enterTraining != nil {
		s.prevTraining = SetTraining(*s.enterTraining)
	}
	return s.exit
}

func (s *scope) exit() {
	if s.enterRecording != nil && IsRecording() != s.prevRecording {
		SetRecording(s.prevRecording)
	}
	if s.enterTraining != nil && IsTraining() != s.prevTraining {
		SetTraining(s.prevTraining)
	}
}

// Record begins a recording scope that captures the operations needing
// gradients, and returns the function restoring the previous state.
//
//	defer autograd.Record(true)()
//	y := model(x)
//	autograd.Backward([]*tensor.Array{y}, nil)
//
// trainMode selects whether the forward pass runs in training or predicting
// mode; a forward recorded with trainMode=false must also be replayed with
// backward in predict mode, otherwise the gradient is undefined.
func Record(trainMode bool) func() {
	on := true
	s := &scope{enterRecording: &on, enterTraining: &trainMode}
	return s.enter()
}

// Pause suspends recording for code that does not need gradients (metrics,
// IO, parameter updates), restoring it on exit.
//
//	defer autograd.Record(true)()
//	y := model(x)
//	func() {
//		defer autograd.Pause(false)()
//		// evaluation, checkpointing...
//	}()
//
// trainMode selects the forward mode inside the paused region and defaults
// to predicting in typical use.
func Pause(trainMode bool) func() {
	off := false
	s := &scope{enterRecording: &off, enterTraining: &trainMode}
	return s.enter()
}

// TrainMode forces training-mode operator behavior for the scope without
// changing the recording state.
func TrainMode() func() {
	on := true
	s := &scope{enterTraining: &on}
	return s.enter()
}

// PredictMode forces predict-mode operator behavior for the scope without
// changing the recording state.
func PredictMode() func() {
	off := false
	s := &scope{enterTraining: &off}
	return s.enter()
}
