package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/hajimehoshi/oto"
	"github.com/jinjor/wavetable-lab/src/wavetable"
	"go.uber.org/zap"
)

var (
	equation  = flag.String("equation", "", "generate frames from a formula in t and frame")
	kind      = flag.String("kind", "sine", "basic waveform kind (sine|square|sawtooth|triangle)")
	keyframes = flag.String("keyframes", "", "comma-separated waveform kinds to morph between")
	numFrames = flag.Int("frames", 8, "number of frames in the table")
	frameSize = flag.Int("frame-size", wavetable.DefaultFrameSize, "samples per frame")
	harmonics = flag.Int("harmonics", 0, "additive synthesis harmonic count, 0 for closed forms")
	enhance   = flag.Float64("enhance", 0, "harmonic enhancement strength in [-1,1]")

	chaos        = flag.Bool("chaos", false, "apply the chaos-fold effect")
	sigma        = flag.Float64("sigma", 10, "chaos-fold input sensitivity")
	rho          = flag.Float64("rho", 28, "chaos-fold feedback intensity")
	beta         = flag.Float64("beta", 0.5, "chaos-fold folding strength")
	timeStep     = flag.Float64("time-step", 0.01, "chaos-fold attractor time step")
	mix          = flag.Float64("mix", 1, "chaos-fold dry/wet mix")
	foldSymmetry = flag.Float64("fold-symmetry", 0.5, "chaos-fold symmetry")
	complexity   = flag.Float64("complexity", 0.5, "chaos-fold complexity")
	lfoAmount    = flag.Float64("lfo-amount", 0, "chaos-fold LFO modulation amount")

	workers     = flag.Int("workers", runtime.NumCPU(), "parallel workers for effect processing")
	gain        = flag.Float64("gain", 1, "output gain before clamping")
	rate        = flag.Int("rate", 44100, "output sample rate")
	outFile     = flag.String("o", "wavetable.wav", "output WAV file")
	play        = flag.Bool("play", false, "play the result instead of only writing it")
	listEffects = flag.Bool("list-effects", false, "list available effects and exit")
	spectrum    = flag.Bool("spectrum", false, "print the first frame's spectrum magnitudes")
)

func main() {
	flag.Parse()
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *listEffects {
		printEffects()
		return
	}
	if err := run(logger); err != nil {
		logger.Fatal("failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ft, err := buildTable(logger)
	if err != nil {
		return err
	}
	if *enhance != 0 {
		logger.Info("enhancing harmonics", zap.Float64("strength", *enhance))
		ft = wavetable.Enhance(ft, *enhance)
	}
	if *chaos {
		logger.Info("applying chaos fold", zap.Int("workers", *workers))
		params := map[string]float64{
			"sigma":        *sigma,
			"rho":          *rho,
			"beta":         *beta,
			"timeStep":     *timeStep,
			"mix":          *mix,
			"foldSymmetry": *foldSymmetry,
			"complexity":   *complexity,
			"lfoAmount":    *lfoAmount,
		}
		frames, err := wavetable.ProcessConcurrent(ft.Frames(), params, *workers, func() wavetable.Effect {
			return wavetable.NewChaosFold()
		})
		if err != nil {
			return err
		}
		ft, err = wavetable.NewFrameTable(frames)
		if err != nil {
			return err
		}
	}
	if err := ft.Validate(); err != nil {
		return err
	}
	if *spectrum {
		printSpectrum(ft)
	}

	data, err := wavetable.EncodeWAV(ft, *rate, *gain)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*outFile, data, 0644); err != nil {
		return err
	}
	logger.Info("wrote table",
		zap.String("file", *outFile),
		zap.Int("frames", ft.NumFrames()),
		zap.Int("frameSize", ft.FrameSize()),
		zap.Int("bytes", len(data)))

	if *play {
		return playPCM(logger, data[44:])
	}
	return nil
}

func buildTable(logger *zap.Logger) (*wavetable.FrameTable, error) {
	switch {
	case *equation != "":
		logger.Info("generating from equation", zap.String("equation", *equation))
		return wavetable.GenerateFromEquation(*equation, *numFrames, *frameSize)
	case *keyframes != "":
		kinds := strings.Split(*keyframes, ",")
		logger.Info("morphing keyframes", zap.Strings("kinds", kinds))
		waves := make([][]float64, len(kinds))
		for i, k := range kinds {
			wave, err := wavetable.BasicWaveform(strings.TrimSpace(k), *frameSize)
			if err != nil {
				return nil, err
			}
			waves[i] = wave
		}
		return wavetable.Morph(waves, *numFrames)
	default:
		logger.Info("generating basic waveform",
			zap.String("kind", *kind), zap.Int("harmonics", *harmonics))
		return wavetable.GenerateBasic(*kind, *numFrames, *frameSize, *harmonics)
	}
}

func printEffects() {
	descs := wavetable.NewRegistry().Describe()
	names := make([]string, 0, len(descs))
	for name := range descs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
		specs := descs[name]
		for _, param := range specs.Names() {
			spec := specs[param]
			fmt.Printf("  %-14s [%g, %g] default %g  %s\n",
				param, spec.Min, spec.Max, spec.Default, spec.Description)
		}
	}
}

func printSpectrum(ft *wavetable.FrameTable) {
	var sb strings.Builder
	for i, m := range ft.Spectrum(0) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(m, 'f', 6, 64))
	}
	fmt.Println(sb.String())
}

func playPCM(logger *zap.Logger, pcm []byte) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalCh)
	go func() {
		sig := <-signalCh
		logger.Info("caught signal, stopping playback", zap.String("signal", sig.String()))
		cancel()
	}()

	otoContext, err := oto.NewContext(*rate, 1, 2, 4096)
	if err != nil {
		return err
	}
	defer otoContext.Close()
	p := otoContext.NewPlayer()
	defer p.Close()

	logger.Info("playing", zap.Int("bytes", len(pcm)))
	const chunk = 4096
	for offset := 0; offset < len(pcm); offset += chunk {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		end := offset + chunk
		if end > len(pcm) {
			end = len(pcm)
		}
		if _, err := p.Write(pcm[offset:end]); err != nil {
			return err
		}
	}
	return nil
}
