package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL_UsesConfiguredBucketAndRegion(t *testing.T) {
	Configure("my-media", "us-east-1")
	defer Configure(DefaultBucket, DefaultRegion)

	url := ObjectURL("features/1/attachments/doc.pdf")
	assert.Equal(t, "https://my-media.s3.us-east-1.amazonaws.com/features/1/attachments/doc.pdf", url)
}

func TestConfigure_EmptyValuesKeepDefaults(t *testing.T) {
	Configure("", "")

	url := ObjectURL("k")
	assert.Equal(t, "https://"+DefaultBucket+".s3."+DefaultRegion+".amazonaws.com/k", url)
}

func TestObjectKeys(t *testing.T) {
	attachment := AttachmentKey(12, "/tmp/évènement report.pdf")
	assert.True(t, strings.HasPrefix(attachment, "features/12/attachments/"))
	assert.True(t, strings.HasSuffix(attachment, "_évènement report.pdf"))

	picture := PictureKey(12, "photo.jpg")
	assert.True(t, strings.HasPrefix(picture, "features/12/pictures/"))

	pictogram := PictogramKey("views", "icon.svg")
	assert.True(t, strings.HasPrefix(pictogram, "pictograms/views/"))
}
