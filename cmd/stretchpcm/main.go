// Command stretchpcm time-stretches and pitch-shifts raw PCM.
//
// It reads interleaved little-endian float32 frames from stdin and writes
// the processed stream to stdout in the same format.
//
// Usage:
//
//	stretchpcm [flags] < in.f32 > out.f32
//
// Examples:
//
//	stretchpcm --rate 0.5 --channels 2 < in.f32 > slow.f32
//	stretchpcm --semitones -3 --lowpass-hz 8000 < in.f32 > out.f32
//	stretchpcm --preset cheaper --seed 42 --delay-ms 12.5 < in.f32 > out.f32
//	stretchpcm --rate 2 --window blackman < in.f32 > fast.f32
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/stretch"
	"github.com/cwbudde/algo-stretch/dsp/stretch/stream"
	"github.com/cwbudde/algo-stretch/dsp/window"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/datacounter"
	"github.com/xaionaro-go/observability"
)

func main() {
	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	rate := pflag.Float64("rate", 1, "playback speed; 0.5 doubles the duration")
	channels := pflag.Int("channels", 1, "number of interleaved channels")
	sampleRate := pflag.Float64("sample-rate", 48000, "sample rate in Hz")
	semitones := pflag.Float64("semitones", 0, "pitch shift in semitones")
	tonalityHz := pflag.Float64("tonality-limit-hz", 0, "frequency above which partials are shifted instead of scaled (0 disables)")
	presetName := pflag.String("preset", "default", "block/interval preset: default or cheaper")
	windowName := pflag.String("window", "hann", "analysis window: rectangular, hann, hamming, blackman or kaiser")
	seed := pflag.Int64("seed", 0, "random seed for deterministic output (random when unset)")
	chunk := pflag.Int("chunk", 1024, "input frames per engine call")
	lowpassHz := pflag.Float64("lowpass-hz", 0, "Butterworth lowpass cutoff in Hz (0 disables)")
	highpassHz := pflag.Float64("highpass-hz", 0, "Butterworth highpass cutoff in Hz (0 disables)")
	filterOrder := pflag.Int("filter-order", 4, "Butterworth filter order")
	delayMs := pflag.Float64("delay-ms", 0, "extra output delay in milliseconds")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	pflag.Parse()

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func() { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	if !core.IsFinite(*rate) || *rate <= 0 {
		assertNoError(fmt.Errorf("--rate must be positive, got %v", *rate))
	}

	preset, err := stretch.ParsePreset(*presetName)
	assertNoError(err)

	win, err := window.ParseType(*windowName)
	assertNoError(err)

	opts := []stretch.Option{
		stretch.WithChannels(*channels),
		stretch.WithSampleRate(*sampleRate),
		stretch.WithPreset(preset),
		stretch.WithWindow(win),
		stretch.WithTransposeSemitones(*semitones, *tonalityHz / *sampleRate),
	}
	if pflag.CommandLine.Changed("seed") {
		opts = append(opts, stretch.WithSeed(*seed))
	}

	engine, err := stretch.New(opts...)
	assertNoError(err)

	logger.Debugf(ctx, "engine: block=%d interval=%d latency=%d",
		engine.BlockSamples(), engine.IntervalSamples(), engine.InputLatency()+engine.OutputLatency())

	reader, err := stream.NewReader(ctx, bufio.NewReader(os.Stdin), engine, 1 / *rate, stream.WithChunkFrames(*chunk))
	assertNoError(err)

	post, err := newPostProcessor(postConfig{
		channels:    *channels,
		sampleRate:  *sampleRate,
		lowpassHz:   *lowpassHz,
		highpassHz:  *highpassHz,
		filterOrder: *filterOrder,
		delayMs:     *delayMs,
	})
	assertNoError(err)

	out := bufio.NewWriter(os.Stdout)
	wc := datacounter.NewWriterCounter(out)

	err = run(ctx, reader, wc, post, *channels)
	assertNoError(err)
	assertNoError(out.Flush())
	assertNoError(reader.Close())

	logger.Infof(ctx, "frames in=%d out=%d, bytes written=%d, peak=%.1f dBFS",
		reader.FramesIn(), reader.FramesOut(), wc.Count(), core.LinearToDB(post.Peak()))
}

func assertNoError(err error) {
	if err != nil {
		panic(fmt.Errorf("stretchpcm: %w", err))
	}
}
