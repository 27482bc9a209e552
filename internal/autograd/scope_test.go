package autograd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetRecording_ReturnsPrevious(t *testing.T) {
	installMock(t)

	assert.False(t, SetRecording(true))
	assert.True(t, SetRecording(true))
	assert.True(t, SetRecording(false))
	assert.False(t, IsRecording())
}

func TestRecord_TogglesAndRestores(t *testing.T) {
	installMock(t)

	exit := Record(true)
	assert.True(t, IsRecording())
	assert.True(t, IsTraining())
	exit()
	assert.False(t, IsRecording())
	assert.False(t, IsTraining())
}

func TestPause_InsideRecord(t *testing.T) {
	installMock(t)

	exitRecord := Record(true)
	func() {
		defer Pause(false)()
		assert.False(t, IsRecording())
		assert.False(t, IsTraining())
	}()
	assert.True(t, IsRecording(), "inner scope restores the outer recording state")
	assert.True(t, IsTraining())
	exitRecord()
	assert.False(t, IsRecording())
}

func TestTrainMode_LeavesRecordingAlone(t *testing.T) {
	m := installMock(t)
	m.recording = true

	exit := TrainMode()
	assert.True(t, IsTraining())
	assert.True(t, IsRecording())
	exit()
	assert.False(t, IsTraining())
	assert.True(t, IsRecording())
}

func TestPredictMode_Restores(t *testing.T) {
	m := installMock(t)
	m.training = true

	exit := PredictMode()
	assert.False(t, IsTraining())
	exit()
	assert.True(t, IsTraining())
}

func TestScope_SkipsRestoreWhenAlreadyBack(t *testing.T) {
	m := installMock(t)

	exit := Record(true)
	// The scope body moved the flags back itself; exit must not flip them
	// again.
	SetRecording(false)
	SetTraining(false)
	setCalls := m.setRecordingCalls
	trainCalls := m.setTrainingCalls
	exit()
	assert.Equal(t, setCalls, m.setRecordingCalls)
	assert.Equal(t, trainCalls, m.setTrainingCalls)
	assert.False(t, IsRecording())
	assert.False(t, IsTraining())
}

func TestScope_RestoresOnPanic(t *testing.T) {
	installMock(t)

	func() {
		defer func() { _ = recover() }()
		defer Record(true)()
		panic("forward blew up")
	}()
	assert.False(t, IsRecording())
	assert.False(t, IsTraining())
}

func TestScope_Nesting(t *testing.T) {
	installMock(t)

	exitOuter := Record(false)
	assert.True(t, IsRecording())
	assert.False(t, IsTraining())

	exitInner := Record(true)
	assert.True(t, IsRecording())
	assert.True(t, IsTraining())

	exitInner()
	assert.True(t, IsRecording())
	assert.False(t, IsTraining())

	exitOuter()
	assert.False(t, IsRecording())
}
