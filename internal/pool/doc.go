// Package pool は固定数のワーカーとジョブキューからなるワーカープールを提供する
//
// # 責務
// - N個のワーカーゴルーチンの起動と停止
// - 投入されたジョブをちょうど1つのワーカーで1回だけ実行する
// - 停止時は実行中のジョブの完了を待ち、未着手のジョブは破棄する
//
// # 仕様
//   - ワーカー数0での生成はプログラミングエラーとしてpanicする
//   - Submit は呼び出し元をブロックしない。キューは既定で上限無し
//   - 同じ呼び出し元からの投入順（FIFO）でキューから取り出す
//   - ジョブのpanicはワーカー内で回復し、ワーカーは動作を続ける
//   - 実行中のジョブを中断する手段は無い
package pool
