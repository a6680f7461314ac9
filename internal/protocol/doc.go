// Package protocol はHTTP/1.1のワイヤーフォーマットを扱う
//
// # 責務
// - HTTPメソッド・ステータスコード・Content-Typeの語彙
// - リクエストラインの解析
// - レスポンスのバイト列への組み立て
//
// # 仕様
//   - 解析・組み立てはどちらも純粋関数で、I/Oを行わない
//   - サポートするバージョンは HTTP/1.1 のみ
//   - URIは解析時に一切加工しない（パスの解決は resolver パッケージの責務）
//   - 全ての関数は複数のゴルーチンから同時に呼び出してよい
package protocol
