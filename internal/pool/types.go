package pool

import "errors"

// Job はワーカーで実行される作業単位
type Job interface {
	Run()
}

// Abandoner はキューに残ったまま停止を迎えたジョブに後始末をさせるためのインターフェース
// Job がこれを実装している場合、停止時に Run の代わりに Abandon が呼ばれる
type Abandoner interface {
	Abandon()
}

// JobFunc は関数をJobとして扱うためのアダプター
type JobFunc func()

// Run は f() を呼ぶ
func (f JobFunc) Run() { f() }

// State はプールの状態
type State int32

const (
	StateInitializing State = iota // ワーカー起動中
	StateRunning                   // ジョブ受付中
	StateDraining                  // 停止処理中（実行中のジョブの完了待ち）
	StateTerminated                // 全ワーカー終了済み
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Stats はプールの統計情報のスナップショット
type Stats struct {
	State     string `json:"state"`
	Workers   int    `json:"workers"`
	Active    int64  `json:"active"`    // 実行中のジョブ数
	Queued    int    `json:"queued"`    // 未着手のジョブ数
	Submitted uint64 `json:"submitted"` // 受け付けたジョブの累計
	Completed uint64 `json:"completed"` // 実行を終えたジョブの累計（panicしたものを含む）
	Rejected  uint64 `json:"rejected"`  // キュー満杯で拒否したジョブの累計
	Panicked  uint64 `json:"panicked"`  // panicしたジョブの累計
	Abandoned uint64 `json:"abandoned"` // 停止時に破棄したジョブの累計
}

var (
	// ErrClosed は停止処理開始後に Submit が呼ばれたことを表す
	ErrClosed = errors.New("pool: プールは停止しています")
	// ErrQueueFull はキューが上限に達していることを表す
	ErrQueueFull = errors.New("pool: ジョブキューが満杯です")
	// ErrNilJob は nil のジョブが渡されたことを表す
	ErrNilJob = errors.New("pool: ジョブがnilです")
)
