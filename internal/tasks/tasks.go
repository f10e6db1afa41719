package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"

	"github.com/IamAKX/propso-v2-sub000/internal/config"
	"github.com/IamAKX/propso-v2-sub000/internal/email"
	"github.com/IamAKX/propso-v2-sub000/internal/services"
	"github.com/IamAKX/propso-v2-sub000/internal/storage"
	"github.com/IamAKX/propso-v2-sub000/internal/utils"
)

// Task type identifiers.
const (
	TypeLeadNotify   = "lead:notify"
	TypeImageProcess = "image:process"
)

// NewClient builds an asynq client sharing the Redis connection settings.
func NewClient(rdb *redis.Client) *asynq.Client {
	opts := rdb.Options()
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// EnqueueLeadNotify schedules an owner-notification email for a new lead.
func EnqueueLeadNotify(ctx context.Context, client *asynq.Client, leadID, ownerID utils.SixID) error {
	payload, err := json.Marshal(LeadNotifyPayload{
		LeadID:  leadID.String(),
		OwnerID: ownerID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal lead notify payload: %w", err)
	}
	_, err = client.EnqueueContext(ctx, asynq.NewTask(TypeLeadNotify, payload), asynq.Queue("default"))
	return err
}

// EnqueueImageProcess schedules normalization of a freshly uploaded image.
func EnqueueImageProcess(ctx context.Context, client *asynq.Client, s3Key string, propertyID utils.SixID, isVideo bool) error {
	payload, err := json.Marshal(ImageProcessPayload{
		S3Key:      s3Key,
		PropertyID: propertyID.String(),
		IsVideo:    isVideo,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal image process payload: %w", err)
	}
	_, err = client.EnqueueContext(ctx, asynq.NewTask(TypeImageProcess, payload), asynq.Queue("images"))
	return err
}

// TaskProcessor holds the dependencies the task handlers need.
type TaskProcessor struct {
	cfg             *config.Config
	emailSender     email.Sender
	objectStorage   storage.IObjectStorage
	propertyService services.IPropertyService
	leadService     services.ILeadService
	userService     services.IUserService
}

func NewTaskProcessor(
	cfg *config.Config,
	emailSender email.Sender,
	objectStorage storage.IObjectStorage,
	propertyService services.IPropertyService,
	leadService services.ILeadService,
	userService services.IUserService,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:             cfg,
		emailSender:     emailSender,
		objectStorage:   objectStorage,
		propertyService: propertyService,
		leadService:     leadService,
		userService:     userService,
	}
}

// SetupServer configures an asynq server and its handler mux. Which handlers
// get registered depends on the worker mode. The caller runs the server.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, isImageWorker, isBgWorker bool) (*asynq.Server, *asynq.ServeMux) {
	opts := rdb.Options()
	serverOpt := asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}

	srv := asynq.NewServer(serverOpt, asynq.Config{
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"images":   5,
			"low":      1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("[Asynq Error] type=%s payload=%s err=%v", task.Type(), string(task.Payload()), err)
		}),
	})

	mux := asynq.NewServeMux()
	if isBgWorker {
		mux.HandleFunc(TypeLeadNotify, processor.HandleLeadNotifyTask)
		log.Println("Registered background task handlers.")
	}
	if isImageWorker {
		mux.HandleFunc(TypeImageProcess, processor.HandleImageProcessTask)
		log.Println("Registered image processing task handlers.")
	}
	if !isBgWorker && !isImageWorker {
		log.Println("Running in API mode, no task server started.")
		return nil, nil
	}

	return srv, mux
}

// LeadNotifyPayload identifies the lead and the listing owner to notify.
type LeadNotifyPayload struct {
	LeadID  string `json:"lead_id"`
	OwnerID string `json:"owner_id"`
}

// HandleLeadNotifyTask emails the listing owner about a newly created lead.
func (p *TaskProcessor) HandleLeadNotifyTask(ctx context.Context, t *asynq.Task) error {
	var payload LeadNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal lead notify payload: %v: %w", err, asynq.SkipRetry)
	}

	leadID, err := utils.ParseSixID(payload.LeadID)
	if err != nil {
		return fmt.Errorf("invalid lead ID in payload: %w", asynq.SkipRetry)
	}
	ownerID, err := utils.ParseSixID(payload.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner ID in payload: %w", asynq.SkipRetry)
	}

	system := services.Actor{IsAdmin: true}
	lead, err := p.leadService.FindLeadByID(ctx, leadID, system)
	if err != nil {
		log.Printf("Lead %s not found for notification: %v", payload.LeadID, err)
		return fmt.Errorf("lead not found: %w", asynq.SkipRetry)
	}
	owner, err := p.userService.FindByID(ctx, ownerID)
	if err != nil {
		log.Printf("Owner %s not found for lead notification: %v", payload.OwnerID, err)
		return fmt.Errorf("owner not found: %w", asynq.SkipRetry)
	}

	subject := fmt.Sprintf("[%s] New enquiry from %s", p.cfg.AppName, lead.Name)
	body := fmt.Sprintf(
		"You have a new enquiry.\r\n\r\nName: %s\r\nEmail: %s\r\nPhone: %s\r\nLooking to: %s (%s)\r\n",
		lead.Name, lead.Email, lead.Phone, lead.Transaction, lead.PropertyType)
	msg := email.BuildMessage(p.cfg.SmtpFromAddress, []string{owner.Email}, subject, body)

	if err := p.emailSender.Send(ctx, []string{owner.Email}, subject, msg); err != nil {
		log.Printf("Lead notification email to %s failed: %v", owner.Email, err)
		return err
	}
	return nil
}

// ImageProcessPayload identifies an uploaded object and its listing.
type ImageProcessPayload struct {
	S3Key      string `json:"s3_key"`
	PropertyID string `json:"property_id"`
	IsVideo    bool   `json:"is_video"`
}

// HandleImageProcessTask downloads an uploaded image, enforces the size and
// dimension limits, re-encodes oversized images, and attaches the object to
// the listing's media list.
func (p *TaskProcessor) HandleImageProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImageProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal image task payload: %v: %w", err, asynq.SkipRetry)
	}

	propertyID, err := utils.ParseSixID(payload.PropertyID)
	if err != nil {
		return fmt.Errorf("invalid property ID in payload: %w", asynq.SkipRetry)
	}

	system := services.Actor{IsAdmin: true}

	// Videos pass through untouched.
	if payload.IsVideo {
		_, err := p.propertyService.AddFiles(ctx, propertyID, system, []services.NewMediaFile{
			{Link: p.objectStorage.PublicURL(payload.S3Key), IsVideo: true},
		})
		return err
	}

	imgData, err := p.objectStorage.Download(ctx, payload.S3Key)
	if err != nil {
		log.Printf("Error downloading %s for processing: %v", payload.S3Key, err)
		return fmt.Errorf("failed to download image: %w", err)
	}

	maxSizeBytes := int64(p.cfg.ImageMaxSizeMB) * 1024 * 1024
	if int64(len(imgData)) > maxSizeBytes {
		log.Printf("Image %s exceeds max size (%d > %d bytes), rejecting.", payload.S3Key, len(imgData), maxSizeBytes)
		if delErr := p.objectStorage.Delete(ctx, payload.S3Key); delErr != nil {
			log.Printf("Warning: failed to delete oversized object %s: %v", payload.S3Key, delErr)
		}
		return fmt.Errorf("image exceeds max size: %w", asynq.SkipRetry)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		log.Printf("Error decoding image %s: %v", payload.S3Key, err)
		return fmt.Errorf("unsupported or corrupt image: %w", asynq.SkipRetry)
	}

	maxDim := uint(p.cfg.ImageMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		log.Printf("Resizing image %s (%dx%d, format %s)", payload.S3Key, img.Bounds().Dx(), img.Bounds().Dy(), format)
		resized := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
			return fmt.Errorf("failed to re-encode resized image: %w", err)
		}
		if _, err := p.objectStorage.Upload(ctx, payload.S3Key, buf.Bytes(), "image/jpeg"); err != nil {
			return fmt.Errorf("failed to upload processed image: %w", err)
		}
	}

	_, err = p.propertyService.AddFiles(ctx, propertyID, system, []services.NewMediaFile{
		{Link: p.objectStorage.PublicURL(payload.S3Key), IsVideo: false},
	})
	if err != nil {
		log.Printf("Error attaching image %s to property %s: %v", payload.S3Key, payload.PropertyID, err)
		return fmt.Errorf("failed to attach image to listing: %w", err)
	}

	log.Printf("Image task processed: key=%s property=%s", payload.S3Key, payload.PropertyID)
	return nil
}
