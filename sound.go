package main

// SoundPlayer covers the audio calls the scene controller makes. Actual
// mixing and the converted audio formats live behind this interface.
type SoundPlayer interface {
	PlaySFX(num int16)
	StopAllSFX()
	PlayMusic(name string)
	UnloadMusic()
}

type nullSound struct {
	music string
}

func (n *nullSound) PlaySFX(num int16) {
	logDebug("sfx %d requested (audio disabled)", num)
}

func (n *nullSound) StopAllSFX() {}

func (n *nullSound) PlayMusic(name string) {
	n.music = name
	logDebug("music %s requested (audio disabled)", name)
}

func (n *nullSound) UnloadMusic() {
	n.music = ""
}
