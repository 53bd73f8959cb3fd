package logger

const RequestIdKey = "X-Studio-Request-Id"

// RunGenerationKey 携带当前生成批次，便于按 run 检索日志
const RunGenerationKey = "run_generation"

var LogDir string
