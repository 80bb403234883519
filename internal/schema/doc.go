// Package schema はhealthリソースのリクエストボディの構造検証を提供する。
//
// 検証は型付き構造体とgo-playground/validatorのタグ宣言で行う。
// 未宣言のキーはjson.DecoderのDisallowUnknownFieldsで拒否され、
// 型・数値範囲・文字列パターン・日時形式の違反はフィールドパス付きの
// 違反リストとして報告される。検証は純粋で、共有状態を持たない。
package schema
