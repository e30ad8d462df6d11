package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const MimePDF = "application/pdf"

// ChangeChannel Redis 变更通知频道
const ChangeChannel = "icd201:changes"
