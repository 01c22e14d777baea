package normalizer

import (
	"encoding/json"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AspectReport is the ranked output of the aspect pipeline. Shape travels as
// ShapeName on the wire and is rebuilt from it when decoding.
type AspectReport struct {
	Shape               ShapeTag       `json:"-"`
	ShapeName           string         `json:"shape"`
	OverallSatisfaction float64        `json:"overall_satisfaction"`
	Records             []AspectRecord `json:"records"`
}

// PointReport is the grouped output of the point pipeline.
type PointReport struct {
	Shape     ShapeTag      `json:"-"`
	ShapeName string        `json:"shape"`
	Points    []PointRecord `json:"points"`
	Groups    []PointGroup  `json:"groups"`
}

func (r *AspectReport) UnmarshalJSON(data []byte) error {
	type plain AspectReport
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Shape, _ = ParseShapeTag(p.ShapeName)
	*r = AspectReport(p)
	return nil
}

func (r *PointReport) UnmarshalJSON(data []byte) error {
	type plain PointReport
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Shape, _ = ParseShapeTag(p.ShapeName)
	*r = PointReport(p)
	return nil
}

type Options struct {
	source RandomSource
	logger *zap.Logger
}

type Option func(*Options)

// WithSeed makes jitter reproducible.
func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.source = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithSource injects the random source used for jitter.
func WithSource(src RandomSource) Option {
	return func(o *Options) {
		o.source = src
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// Normalizer runs detection, normalization, derivation and ranking in one
// call. It is safe for concurrent use.
type Normalizer struct {
	src    RandomSource
	logger *zap.Logger
}

// New creates a Normalizer. Without WithSeed or WithSource jitter is seeded
// from the clock.
func New(opts ...Option) *Normalizer {
	options := &Options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(options)
	}
	if options.source == nil {
		now := uint64(time.Now().UnixNano())
		options.source = rand.New(rand.NewPCG(now, now>>1))
	}
	if options.logger == nil {
		options.logger = zap.NewNop()
	}
	return &Normalizer{
		src:    &lockedSource{src: options.source},
		logger: options.logger.Named("normalizer"),
	}
}

// Aspects runs the aspect pipeline over payload.
func (n *Normalizer) Aspects(payload Payload) AspectReport {
	shape := Detect(payload)
	records := RankAspects(NormalizeAspects(payload, shape))

	n.logger.Debug("aspects normalized",
		zap.String("shape", shape.String()),
		zap.Int("records", len(records)))

	return AspectReport{
		Shape:               shape,
		ShapeName:           shape.String(),
		OverallSatisfaction: clampRating(OverallSatisfaction(payload)),
		Records:             records,
	}
}

// Points runs the point pipeline over payload, jittering every point.
func (n *Normalizer) Points(payload Payload) PointReport {
	shape := Detect(payload)
	points := NormalizePoints(payload, shape)
	for i := range points {
		points[i] = DerivePoint(points[i], n.src)
	}

	n.logger.Debug("points normalized",
		zap.String("shape", shape.String()),
		zap.Int("points", len(points)))

	return PointReport{
		Shape:     shape,
		ShapeName: shape.String(),
		Points:    points,
		Groups:    GroupPoints(points),
	}
}

type lockedSource struct {
	mu  sync.Mutex
	src RandomSource
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
