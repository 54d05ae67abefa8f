package config

const (
	defaultWorkDir    = "~/.local/share/resyncinator/main"
	defaultStagingDir = "~/.local/share/resyncinator/staging"
	defaultLogDir     = "~/.local/share/resyncinator/logs"

	defaultArkHelper  = "arkhelper"
	defaultRockAudio  = "rockaudio"
	defaultSevenZip   = "7z"
	defaultImgBurn    = "imgburn"
	defaultPS2Master  = "ps2master"
	defaultImgBurnINI = "imgburn.ini"

	defaultArchiveName = "MAIN"
	// Just under 4 GiB, matching the ARK data-file ceiling the packer accepts.
	defaultArchiveMaxSizeBytes = 4073741823

	// Compensates the fixed PS2/PCSX2 audio latency.
	defaultDelayMs = -60

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:    defaultWorkDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Tools: Tools{
			ArkHelper:  defaultArkHelper,
			RockAudio:  defaultRockAudio,
			SevenZip:   defaultSevenZip,
			ImgBurn:    defaultImgBurn,
			PS2Master:  defaultPS2Master,
			ImgBurnINI: defaultImgBurnINI,
		},
		Archive: Archive{
			Name:         defaultArchiveName,
			MaxSizeBytes: defaultArchiveMaxSizeBytes,
		},
		Offset: Offset{
			DelayMs: defaultDelayMs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
