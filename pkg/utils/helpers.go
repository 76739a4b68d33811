package utils

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"gorm.io/datatypes"
)

// CalculateMD5 computes the MD5 hash of a byte slice.
func CalculateMD5(data []byte) string {
	hasher := md5.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// ToJSON 辅助函数: 将任意值序列化为 datatypes.JSON
// 序列化失败时返回 fallback，调用方通常传入 "{}" 或 "[]"
func ToJSON(v interface{}, fallback string) datatypes.JSON {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON(fallback)
	}
	return datatypes.JSON(jsonBytes)
}
