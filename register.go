package dds

import "image"

func init() {
	image.RegisterFormat("dds", Magic, DecodeImage, DecodeConfig)
}
