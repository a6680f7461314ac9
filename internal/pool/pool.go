package pool

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Pool は固定数のワーカーでジョブを実行するワーカープール
type Pool struct {
	mu    sync.Mutex
	cond  *sync.Cond
	queue []Job

	state     atomic.Int32
	size      int
	maxQueued int

	wg     sync.WaitGroup
	done   chan struct{} // 停止処理の完了で閉じる
	logger zerolog.Logger

	active    atomic.Int64
	submitted atomic.Uint64
	completed atomic.Uint64
	rejected  atomic.Uint64
	panicked  atomic.Uint64
	abandoned atomic.Uint64
}

// New は size 個のワーカーを持つプールを作成し、ワーカーを起動する
// size が1未満の場合はpanicする
func New(size int, logger zerolog.Logger) *Pool {
	if size < 1 {
		panic(fmt.Sprintf("pool: ワーカー数は1以上である必要があります: %d", size))
	}

	p := &Pool{
		size:   size,
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "pool").Logger(),
	}
	p.cond = sync.NewCond(&p.mu)
	p.state.Store(int32(StateInitializing))

	for id := 0; id < size; id++ {
		p.wg.Add(1)
		go p.worker(id)
	}

	p.state.Store(int32(StateRunning))
	p.logger.Info().Int("workers", size).Msg("ワーカープールを開始しました")
	return p
}

// SetMaxQueued は未着手ジョブ数の上限を設定する。0以下は上限無し
// 上限に達している間、Submit は ErrQueueFull を返す
func (p *Pool) SetMaxQueued(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maxQueued = n
}

// Size はワーカー数を返す
func (p *Pool) Size() int { return p.size }

// State は現在の状態を返す
func (p *Pool) State() State { return State(p.state.Load()) }

// Submit はジョブをキューに追加する。呼び出し元をブロックしない
func (p *Pool) Submit(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	p.mu.Lock()
	if p.State() != StateRunning {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.maxQueued > 0 && len(p.queue) >= p.maxQueued {
		p.mu.Unlock()
		p.rejected.Add(1)
		return ErrQueueFull
	}
	p.queue = append(p.queue, job)
	p.submitted.Add(1)
	p.mu.Unlock()

	p.cond.Signal()
	return nil
}

// Shutdown は全ワーカーに停止を指示し、全ワーカーの終了を待つ
//
// 実行中のジョブは完了まで実行される。キューに残っているジョブは実行されず、
// Abandoner を実装していれば Abandon が呼ばれる。
// 2回目以降の呼び出しは最初の停止処理の完了（StateTerminated）を待つだけ
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.State() != StateRunning {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.state.Store(int32(StateDraining))
	pending := p.queue
	p.queue = nil
	p.mu.Unlock()

	p.logger.Info().Int("abandoned", len(pending)).Msg("全ワーカーに停止を指示しました")
	p.cond.Broadcast()

	for _, job := range pending {
		p.abandoned.Add(1)
		if a, ok := job.(Abandoner); ok {
			a.Abandon()
		}
	}

	p.wg.Wait()
	p.state.Store(int32(StateTerminated))
	close(p.done)
	p.logger.Info().Msg("ワーカープールを停止しました")
}

// Stats は統計情報を返す
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	queued := len(p.queue)
	p.mu.Unlock()

	return Stats{
		State:     p.State().String(),
		Workers:   p.size,
		Active:    p.active.Load(),
		Queued:    queued,
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Rejected:  p.rejected.Load(),
		Panicked:  p.panicked.Load(),
		Abandoned: p.abandoned.Load(),
	}
}

// worker はキューからジョブを取り出して実行し続ける
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	logger := p.logger.With().Int("worker", id).Logger()

	for {
		job, ok := p.next()
		if !ok {
			logger.Debug().Msg("停止指示を受けたため終了します")
			return
		}

		logger.Debug().Msg("ジョブを受け取りました。実行します")
		p.run(logger, job)
	}
}

// next はジョブが来るまで待つ。停止処理中なら false を返す
func (p *Pool) next() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.queue) == 0 && !p.stopping() {
		p.cond.Wait()
	}
	if p.stopping() {
		return nil, false
	}

	job := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return job, true
}

func (p *Pool) stopping() bool {
	return p.State() >= StateDraining
}

// run はジョブを1つ実行する。ジョブのpanicはここで回復する
func (p *Pool) run(logger zerolog.Logger, job Job) {
	p.active.Add(1)
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			logger.Error().Interface("panic", r).Msg("ジョブがpanicしました")
		}
		p.active.Add(-1)
		p.completed.Add(1)
	}()

	job.Run()
}
