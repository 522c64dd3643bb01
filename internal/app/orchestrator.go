package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/thermo/internal/analysis"
	"github.com/five82/thermo/internal/clock"
	"github.com/five82/thermo/internal/connection"
	"github.com/five82/thermo/internal/history"
	"github.com/five82/thermo/internal/logging"
	"github.com/five82/thermo/internal/present"
	"github.com/five82/thermo/internal/retry"
	"github.com/five82/thermo/internal/thermostat"
	"github.com/five82/thermo/internal/validate"
)

const (
	defaultFetchPeriod   = 10 * time.Second
	defaultDisplayPeriod = time.Second
	chartLabelLayout     = "15:04"
)

// SyncOptions configure an Orchestrator. Only Fetcher is required.
type SyncOptions struct {
	Fetcher    thermostat.Fetcher
	History    *history.Store
	Presenter  present.Presenter
	Clock      clock.Clock
	Logger     logging.Logger
	Policy     retry.Policy
	Rules      validate.Rules
	Trend      analysis.TrendConfig
	Difference analysis.DifferenceConfig
	Connection connection.Config

	FetchPeriod   time.Duration
	DisplayPeriod time.Duration

	// Range is the chart range key selected at startup.
	Range string

	// OnRangeSelected persists a newly selected range. Errors are logged.
	OnRangeSelected func(key string) error
}

// SyncSession is the mutable state of one orchestrator.
type SyncSession struct {
	Machine     *connection.Machine
	InFlight    bool
	Stopped     bool
	Cycles      int
	LastAttempt time.Time
	Range       history.Range
}

// Orchestrator drives fetch cycles and display ticks and publishes the
// results. Every access to the session holds mu, so the control methods are
// safe to call from any goroutine before, during and after Run. Cycle and
// DisplayTick drive the same steps synchronously and must not be mixed with a
// running loop.
type Orchestrator struct {
	fetcher   thermostat.Fetcher
	history   *history.Store
	presenter present.Presenter
	clk       clock.Clock
	logger    logging.Logger
	policy    retry.Policy
	rules     validate.Rules
	trend     analysis.TrendConfig
	diff      analysis.DifferenceConfig
	onRange   func(string) error

	fetchPeriod   time.Duration
	displayPeriod time.Duration

	mu      sync.Mutex
	session SyncSession

	commands chan command
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	running  atomic.Bool
}

type command struct {
	dismiss  bool
	rangeKey string
}

// cycleMsg carries either a retry notice or the final result of a cycle, so
// both arrive at the loop in the order the worker produced them.
type cycleMsg struct {
	attempt *retry.Attempt
	result  *cycleResult
}

type cycleResult struct {
	resp *thermostat.StateResponse
	err  error
}

type chartResult struct {
	rangeKey string
	points   []thermostat.HistoryPoint
	err      error
}

// NewOrchestrator validates opts and fills defaults.
func NewOrchestrator(opts SyncOptions) (*Orchestrator, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("orchestrator needs a fetcher")
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real
	}
	policy := opts.Policy
	if policy.Attempts() == 0 {
		policy = retry.DefaultPolicy()
	}
	if policy.Logger == nil {
		policy.Logger = opts.Logger.Slog()
	}
	store := opts.History
	if store == nil {
		store = history.New(nil, clk, history.DefaultWindow, opts.Logger)
	}
	presenter := opts.Presenter
	if presenter == nil {
		presenter = present.Discard
	}
	rules := opts.Rules
	if rules == nil {
		rules = validate.DefaultRules()
	}
	trend := opts.Trend
	if trend.MinSamples <= 0 {
		trend = analysis.DefaultTrendConfig()
	}
	diff := opts.Difference
	if diff.MaxDelta <= 0 {
		diff = analysis.DefaultDifferenceConfig()
	}
	fetchPeriod := opts.FetchPeriod
	if fetchPeriod <= 0 {
		fetchPeriod = defaultFetchPeriod
	}
	displayPeriod := opts.DisplayPeriod
	if displayPeriod <= 0 {
		displayPeriod = defaultDisplayPeriod
	}
	rng, ok := history.LookupRange(opts.Range)
	if !ok {
		rng, _ = history.LookupRange(history.DefaultRangeKey)
	}

	return &Orchestrator{
		fetcher:       opts.Fetcher,
		history:       store,
		presenter:     presenter,
		clk:           clk,
		logger:        opts.Logger.With("component", "sync"),
		policy:        policy,
		rules:         rules,
		trend:         trend,
		diff:          diff,
		onRange:       opts.OnRangeSelected,
		fetchPeriod:   fetchPeriod,
		displayPeriod: displayPeriod,
		session: SyncSession{
			Machine: connection.New(opts.Connection),
			Range:   rng,
		},
		commands: make(chan command, 8),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Session returns a copy of the session.
func (o *Orchestrator) Session() SyncSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// Run fetches immediately, then on every fetch tick, and refreshes the
// connection view on every display tick. It returns when ctx is cancelled
// or Stop is called.
func (o *Orchestrator) Run(ctx context.Context) error {
	if !o.running.CompareAndSwap(false, true) {
		return errors.New("orchestrator already running")
	}
	defer close(o.done)
	defer o.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	select {
	case <-o.stopCh:
		o.shutdown()
		return nil
	default:
	}

	fetchTicker := o.clk.NewTicker(o.fetchPeriod)
	defer fetchTicker.Stop()
	displayTicker := o.clk.NewTicker(o.displayPeriod)
	defer displayTicker.Stop()

	msgs := make(chan cycleMsg, o.policy.Attempts()+1)
	charts := make(chan chartResult, 1)

	o.mu.Lock()
	o.logger.Info("sync started",
		"fetch_period", o.fetchPeriod,
		"display_period", o.displayPeriod,
		"range", o.session.Range.Key,
	)
	o.startCycle(ctx, msgs)
	if o.session.Range.Remote {
		o.startChartFetch(ctx, o.session.Range, charts)
	}
	o.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			o.shutdown()
			return nil
		case <-o.stopCh:
			o.shutdown()
			return nil
		case <-fetchTicker.C():
			o.mu.Lock()
			o.fetchTick(ctx, msgs)
			o.mu.Unlock()
		case <-displayTicker.C():
			o.DisplayTick()
		case msg := <-msgs:
			o.mu.Lock()
			if msg.attempt != nil {
				o.applyRetry(*msg.attempt)
			} else {
				o.finishCycle(ctx, *msg.result)
			}
			o.mu.Unlock()
		case cmd := <-o.commands:
			o.mu.Lock()
			o.handle(ctx, cmd, charts)
			o.mu.Unlock()
		case res := <-charts:
			o.mu.Lock()
			o.applyChart(res)
			o.mu.Unlock()
		}
	}
}

func (o *Orchestrator) fetchTick(ctx context.Context, msgs chan<- cycleMsg) {
	if o.session.InFlight {
		o.logger.Debug("fetch skipped, previous cycle still running", "cycle", o.session.Cycles)
		return
	}
	o.startCycle(ctx, msgs)
}

// Stop ends Run. Late results are dropped and nothing is published after
// Stop returns.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		close(o.stopCh)
	})
	if o.running.Load() {
		<-o.done
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session.Stopped = true
}

// Cycle runs one complete fetch cycle on the calling goroutine.
func (o *Orchestrator) Cycle(ctx context.Context) {
	o.mu.Lock()
	if o.session.Stopped {
		o.mu.Unlock()
		return
	}
	o.beginCycle()
	o.mu.Unlock()

	resp, err := o.fetch(ctx, func(a retry.Attempt) {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.applyRetry(a)
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishCycle(ctx, cycleResult{resp: resp, err: err})
}

// DisplayTick re-evaluates staleness and refreshes the elapsed label.
func (o *Orchestrator) DisplayTick() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session.Stopped {
		return
	}
	now := o.clk.Now()
	m := o.session.Machine
	t := m.Evaluate(now, o.session.InFlight)
	view := m.View(now)
	if t.Changed() {
		o.logger.Info("connection state changed", "from", t.From, "to", t.To, "last_update", m.LastUpdate())
		o.present(present.ConnectionChanged{View: view, From: t.From, To: t.To, Cause: present.CauseStale})
	}
	o.present(present.ElapsedTick{Elapsed: view.Elapsed, BannerText: view.BannerText, At: now})
}

// DismissBanner hides the connection banner until the next reconnect.
func (o *Orchestrator) DismissBanner() {
	if o.send(context.Background(), command{dismiss: true}) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dismiss()
}

// SelectRange switches the temperature chart to the range named key and
// publishes its series.
func (o *Orchestrator) SelectRange(ctx context.Context, key string) error {
	if _, ok := history.LookupRange(key); !ok {
		return fmt.Errorf("unknown chart range %q", key)
	}
	if o.send(ctx, command{rangeKey: key}) {
		return nil
	}

	o.mu.Lock()
	if o.session.Stopped {
		o.mu.Unlock()
		return nil
	}
	rng := o.selectRange(key)
	o.mu.Unlock()

	if rng.Remote {
		res := o.fetchChart(ctx, rng)
		o.mu.Lock()
		defer o.mu.Unlock()
		o.applyChart(res)
	}
	return nil
}

// send hands cmd to the running loop. It reports false when no loop is
// running.
func (o *Orchestrator) send(ctx context.Context, cmd command) bool {
	if !o.running.Load() {
		return false
	}
	select {
	case o.commands <- cmd:
	case <-o.done:
	case <-ctx.Done():
	}
	return true
}

func (o *Orchestrator) handle(ctx context.Context, cmd command, charts chan<- chartResult) {
	if cmd.dismiss {
		o.dismiss()
		return
	}
	rng := o.selectRange(cmd.rangeKey)
	if rng.Remote {
		o.startChartFetch(ctx, rng, charts)
	}
}

func (o *Orchestrator) dismiss() {
	if o.session.Stopped {
		return
	}
	m := o.session.Machine
	m.Dismiss()
	cur := m.Current()
	o.present(present.ConnectionChanged{View: m.View(o.clk.Now()), From: cur, To: cur, Cause: present.CauseDismiss})
}

// selectRange records key as the active range and publishes the local series
// when the range is served from history.
func (o *Orchestrator) selectRange(key string) history.Range {
	rng, _ := history.LookupRange(key)
	o.session.Range = rng
	o.logger.Info("chart range selected", "range", rng.Key)
	if o.onRange != nil {
		if err := o.onRange(rng.Key); err != nil {
			o.logger.Warn("save chart range failed", "range", rng.Key, "err", err)
		}
	}
	if !rng.Remote {
		labels, values := o.history.Series(history.Temperature)
		o.present(present.ChartUpdated{Series: present.SeriesTemperature, Range: rng.Key, Labels: labels, Values: values})
	}
	return rng
}

func (o *Orchestrator) startChartFetch(ctx context.Context, rng history.Range, out chan<- chartResult) {
	go func() {
		res := o.fetchChart(ctx, rng)
		select {
		case out <- res:
		case <-ctx.Done():
		}
	}()
}

func (o *Orchestrator) fetchChart(ctx context.Context, rng history.Range) chartResult {
	// One attempt bounded by the longest retry timeout.
	timeout := o.policy.Timeouts[len(o.policy.Timeouts)-1]
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	points, err := o.fetcher.FetchHistory(cctx, rng.Limit)
	return chartResult{rangeKey: rng.Key, points: points, err: err}
}

func (o *Orchestrator) applyChart(res chartResult) {
	if o.session.Stopped || res.rangeKey != o.session.Range.Key {
		return
	}
	ev := present.ChartUpdated{Series: present.SeriesTemperature, Range: res.rangeKey}
	if res.err != nil {
		o.logger.Warn("history fetch failed", "range", res.rangeKey, "err", res.err)
	} else {
		ev.Labels = make([]string, 0, len(res.points))
		ev.Values = make([]float64, 0, len(res.points))
		for _, p := range res.points {
			ev.Labels = append(ev.Labels, p.At.Format(chartLabelLayout))
			ev.Values = append(ev.Values, p.Temperature)
		}
	}
	o.present(ev)
}

func (o *Orchestrator) startCycle(ctx context.Context, out chan<- cycleMsg) {
	o.beginCycle()
	go func() {
		notify := func(a retry.Attempt) {
			select {
			case out <- cycleMsg{attempt: &a}:
			case <-ctx.Done():
			}
		}
		resp, err := o.fetch(ctx, notify)
		select {
		case out <- cycleMsg{result: &cycleResult{resp: resp, err: err}}:
		case <-ctx.Done():
		}
	}()
}

func (o *Orchestrator) beginCycle() {
	o.session.InFlight = true
	o.session.Cycles++
	o.session.LastAttempt = o.clk.Now()
	o.present(present.UpdatingChanged{Active: true})
}

func (o *Orchestrator) fetch(ctx context.Context, notify func(retry.Attempt)) (*thermostat.StateResponse, error) {
	return retry.Do(ctx, o.policy, o.clk, "fetch state", o.fetcher.FetchState, notify)
}

func (o *Orchestrator) applyRetry(a retry.Attempt) {
	if o.session.Stopped {
		return
	}
	m := o.session.Machine
	m.BeginRetry(a.Index, a.Total)
	cur := m.Current()
	o.present(present.Retrying{Attempt: a.Index, Total: a.Total, Backoff: a.Backoff})
	o.present(present.ConnectionChanged{View: m.View(o.clk.Now()), From: cur, To: cur, Cause: present.CauseRetry})
}

// finishCycle folds a fetch result into the session. The steps run in a
// fixed order: validate, history, connection, analysis, then publish.
func (o *Orchestrator) finishCycle(ctx context.Context, res cycleResult) {
	o.session.InFlight = false
	if o.session.Stopped || ctx.Err() != nil {
		return
	}
	now := o.clk.Now()
	m := o.session.Machine
	var events []present.Event

	outcome := connection.OutcomeFailed
	cause := present.CauseFailed
	var (
		payload map[string]any
		result  validate.Result
	)
	if res.err != nil {
		o.logger.Warn("fetch cycle failed", "cycle", o.session.Cycles, "err", res.err)
	} else {
		outcome, cause = connection.OutcomeLive, present.CauseLive
		if res.resp.FromCache {
			outcome, cause = connection.OutcomeCached, present.CauseCached
		}
		payload = res.resp.Data
		result = validate.Validate(payload, o.rules, o.logger)
		events = append(events, present.ValuesUpdated{
			Fields:      result.Fields,
			Valid:       !result.HasErrors(),
			BatteryHint: present.BatteryHint(fmt.Sprint(result.Fields[validate.FieldIndicator])),
			At:          now,
		})
	}

	analyse := res.err == nil && !result.HasErrors()
	var temps, levels []history.Sample
	if analyse {
		if ambient, ok := validate.Number(payload[validate.FieldAmbient]); ok {
			temps = o.history.Append(history.Temperature, ambient)
		}
		device := fmt.Sprint(result.Fields[validate.FieldDevice])
		levels = o.history.Append(history.DeviceState, history.DeviceStateLevel(device))
	}

	prev := m.Current()
	t := m.Observe(outcome, now)
	if t.Changed() {
		o.logger.Info("connection state changed", "from", t.From, "to", t.To, "outcome", outcome)
	}
	events = append(events, present.ConnectionChanged{View: m.View(now), From: prev, To: t.To, Cause: cause})
	if t.Reconnected {
		o.logger.Info("reconnected")
		events = append(events, present.Reconnected{At: now})
	}

	if analyse {
		events = append(events, o.analyse(payload, result, temps, levels)...)
	}
	events = append(events, present.UpdatingChanged{Active: false})

	for _, e := range events {
		o.present(e)
	}
}

func (o *Orchestrator) analyse(payload map[string]any, result validate.Result, temps, levels []history.Sample) []present.Event {
	var events []present.Event
	current, okCur := validate.Number(payload[validate.FieldAmbient])
	target, okTgt := validate.Number(payload[validate.FieldTarget])
	if okCur && okTgt {
		_, values := history.Split(temps)
		trend := analysis.ComputeTrend(values, current, target, o.trend)
		device := fmt.Sprint(result.Fields[validate.FieldDevice])
		events = append(events,
			present.TrendUpdated{
				Trend:       trend,
				Caption:     analysis.DescribeTrend(trend, current, target, device),
				DeviceState: device,
			},
			present.DifferenceUpdated{Difference: analysis.ComputeDifference(current, target, o.diff)},
		)
	}

	if !o.session.Range.Remote && temps != nil {
		labels, values := history.Split(temps)
		events = append(events, present.ChartUpdated{
			Series: present.SeriesTemperature,
			Range:  o.session.Range.Key,
			Labels: labels,
			Values: values,
		})
	}
	labels, values := history.Split(levels)
	events = append(events, present.ChartUpdated{
		Series: present.SeriesDeviceState,
		Range:  history.DefaultRangeKey,
		Labels: labels,
		Values: values,
	})
	return events
}

func (o *Orchestrator) shutdown() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session.Stopped = true
	o.session.InFlight = false
	o.logger.Info("sync stopped", "cycles", o.session.Cycles)
}

func (o *Orchestrator) present(e present.Event) {
	if o.session.Stopped {
		return
	}
	o.presenter.Present(e)
}
