// Package server は、静的ファイルを配信するTCPサーバーを管理します。
//
// このパッケージは、リスナーの起動、接続の受け付け、
// ワーカープールへの接続処理の投入、管理APIの提供を担当します。
//
// 責務:
//   - TCPリスナーの起動と管理
//   - 接続ごとの リクエスト受信 → 解析 → 解決 → レスポンス送信
//   - 接続処理のワーカープールへの分配
//   - 管理API（ヘルスチェック・状態取得）の提供
//
// 仕様:
//   - 1接続につき1リクエストのみ処理し、応答後に切断する
//   - 管理APIはgin-gonic/ginを使用
//   - グレースフルシャットダウンに対応
//   - 複数クライアントの同時接続をサポート
package server
