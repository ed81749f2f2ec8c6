package config

// SafeErrorMessage 根据运行模式决定返回给客户端的错误信息
// debug 模式返回具体错误便于排查；release 模式只返回 fallback，避免泄露内部细节。
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
