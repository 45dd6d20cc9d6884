package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/stretch/stream"
	"github.com/cwbudde/algo-stretch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePCM(samples []float32) []byte {
	out := make([]byte, len(samples)*bytesPerSample)
	stream.EncodeFloat32LE(out, samples)

	return out
}

func decodePCM(data []byte) []float32 {
	out := make([]float32, len(data)/bytesPerSample)
	stream.DecodeFloat32LE(out, data)

	return out
}

func TestRun_PassThrough(t *testing.T) {
	x := testutil.DeterministicNoise(1, 0.7, 2*5000)

	post, err := newPostProcessor(postConfig{channels: 2, sampleRate: 48000})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), bytes.NewReader(encodePCM(x)), &out, post, 2))

	assert.Equal(t, x, decodePCM(out.Bytes()))
	assert.InDelta(t, 0.7, post.Peak(), 0.05)
}

func TestRun_PartialFrameFails(t *testing.T) {
	post, err := newPostProcessor(postConfig{channels: 2, sampleRate: 48000})
	require.NoError(t, err)

	var out bytes.Buffer
	err = run(context.Background(), bytes.NewReader(make([]byte, 12)), &out, post, 2)
	require.Error(t, err)
}

func TestPostProcessor_LowpassAttenuatesHighTone(t *testing.T) {
	post, err := newPostProcessor(postConfig{
		channels: 1, sampleRate: 48000, lowpassHz: 1000, filterOrder: 4,
	})
	require.NoError(t, err)

	x := testutil.DeterministicSine(10000, 48000, 1, 4800)
	post.Process(buffer.ViewOf(x))

	tail := x[2400:]
	assert.Less(t, testutil.Energy(tail)/float64(len(tail)), 1e-6)
}

func TestPostProcessor_HighpassRemovesDC(t *testing.T) {
	post, err := newPostProcessor(postConfig{
		channels: 1, sampleRate: 48000, highpassHz: 50, filterOrder: 2,
	})
	require.NoError(t, err)

	x := testutil.DC(0.5, 48000)
	post.Process(buffer.ViewOf(x))

	assert.InDelta(t, 0, x[len(x)-1], 1e-3)
}

func TestPostProcessor_Delay(t *testing.T) {
	post, err := newPostProcessor(postConfig{channels: 1, sampleRate: 1000, delayMs: 5})
	require.NoError(t, err)

	x := testutil.Impulse(32, 0)
	post.Process(buffer.ViewOf(x))

	assert.Equal(t, 5, testutil.ArgMaxAbs(x))
	assert.InDelta(t, 1, x[5], 1e-6)
}

func TestNewPostProcessor_Errors(t *testing.T) {
	tests := []postConfig{
		{channels: 0, sampleRate: 48000},
		{channels: 1, sampleRate: 48000, lowpassHz: 30000, filterOrder: 4},
		{channels: 1, sampleRate: 48000, highpassHz: 100, filterOrder: 0},
		{channels: 1, sampleRate: 48000, delayMs: -1},
	}

	for _, cfg := range tests {
		_, err := newPostProcessor(cfg)
		assert.Error(t, err, "%+v", cfg)
	}
}
