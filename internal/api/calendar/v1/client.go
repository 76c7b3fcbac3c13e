package calendarv1

import (
	"context"

	"google.golang.org/grpc"
)

type CalendarServiceClient interface {
	ListDoctors(ctx context.Context, in *ListDoctorsRequest, opts ...grpc.CallOption) (*ListDoctorsResponse, error)
	GetDoctor(ctx context.Context, in *GetDoctorRequest, opts ...grpc.CallOption) (*DoctorResponse, error)
	CreateDoctor(ctx context.Context, in *CreateDoctorRequest, opts ...grpc.CallOption) (*DoctorResponse, error)
	UpdateSchedule(ctx context.Context, in *UpdateScheduleRequest, opts ...grpc.CallOption) (*DoctorResponse, error)
	SetDoctorVerification(ctx context.Context, in *SetDoctorVerificationRequest, opts ...grpc.CallOption) (*DoctorResponse, error)
	ListAvailableSlots(ctx context.Context, in *ListAvailableSlotsRequest, opts ...grpc.CallOption) (*ListAvailableSlotsResponse, error)
	CheckDate(ctx context.Context, in *CheckDateRequest, opts ...grpc.CallOption) (*CheckDateResponse, error)
	ReserveSlot(ctx context.Context, in *ReserveSlotRequest, opts ...grpc.CallOption) (*AppointmentResponse, error)
	CancelAppointment(ctx context.Context, in *CancelAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error)
	CompleteAppointment(ctx context.Context, in *CompleteAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error)
	GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error)
	ListPatientAppointments(ctx context.Context, in *ListPatientAppointmentsRequest, opts ...grpc.CallOption) (*ListPatientAppointmentsResponse, error)
	UpdatePaymentStatus(ctx context.Context, in *UpdatePaymentStatusRequest, opts ...grpc.CallOption) (*AppointmentResponse, error)
	ListDoctorAppointments(ctx context.Context, in *ListDoctorAppointmentsRequest, opts ...grpc.CallOption) (*ListDoctorAppointmentsResponse, error)
	ListAppointmentEvents(ctx context.Context, in *ListAppointmentEventsRequest, opts ...grpc.CallOption) (*ListAppointmentEventsResponse, error)
}

type calendarServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCalendarServiceClient(cc grpc.ClientConnInterface) CalendarServiceClient {
	return &calendarServiceClient{cc: cc}
}

// invoke вызывает метод с JSON-кодеком; явные opts вызывающего идут после и могут его переопределить.
func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *calendarServiceClient) ListDoctors(ctx context.Context, in *ListDoctorsRequest, opts ...grpc.CallOption) (*ListDoctorsResponse, error) {
	return invoke[ListDoctorsResponse](ctx, c.cc, CalendarService_ListDoctors_FullMethodName, in, opts)
}

func (c *calendarServiceClient) GetDoctor(ctx context.Context, in *GetDoctorRequest, opts ...grpc.CallOption) (*DoctorResponse, error) {
	return invoke[DoctorResponse](ctx, c.cc, CalendarService_GetDoctor_FullMethodName, in, opts)
}

func (c *calendarServiceClient) CreateDoctor(ctx context.Context, in *CreateDoctorRequest, opts ...grpc.CallOption) (*DoctorResponse, error) {
	return invoke[DoctorResponse](ctx, c.cc, CalendarService_CreateDoctor_FullMethodName, in, opts)
}

func (c *calendarServiceClient) UpdateSchedule(ctx context.Context, in *UpdateScheduleRequest, opts ...grpc.CallOption) (*DoctorResponse, error) {
	return invoke[DoctorResponse](ctx, c.cc, CalendarService_UpdateSchedule_FullMethodName, in, opts)
}

func (c *calendarServiceClient) SetDoctorVerification(ctx context.Context, in *SetDoctorVerificationRequest, opts ...grpc.CallOption) (*DoctorResponse, error) {
	return invoke[DoctorResponse](ctx, c.cc, CalendarService_SetDoctorVerification_FullMethodName, in, opts)
}

func (c *calendarServiceClient) ListAvailableSlots(ctx context.Context, in *ListAvailableSlotsRequest, opts ...grpc.CallOption) (*ListAvailableSlotsResponse, error) {
	return invoke[ListAvailableSlotsResponse](ctx, c.cc, CalendarService_ListAvailableSlots_FullMethodName, in, opts)
}

func (c *calendarServiceClient) CheckDate(ctx context.Context, in *CheckDateRequest, opts ...grpc.CallOption) (*CheckDateResponse, error) {
	return invoke[CheckDateResponse](ctx, c.cc, CalendarService_CheckDate_FullMethodName, in, opts)
}

func (c *calendarServiceClient) ReserveSlot(ctx context.Context, in *ReserveSlotRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, CalendarService_ReserveSlot_FullMethodName, in, opts)
}

func (c *calendarServiceClient) CancelAppointment(ctx context.Context, in *CancelAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, CalendarService_CancelAppointment_FullMethodName, in, opts)
}

func (c *calendarServiceClient) CompleteAppointment(ctx context.Context, in *CompleteAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, CalendarService_CompleteAppointment_FullMethodName, in, opts)
}

func (c *calendarServiceClient) GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, CalendarService_GetAppointment_FullMethodName, in, opts)
}

func (c *calendarServiceClient) ListPatientAppointments(ctx context.Context, in *ListPatientAppointmentsRequest, opts ...grpc.CallOption) (*ListPatientAppointmentsResponse, error) {
	return invoke[ListPatientAppointmentsResponse](ctx, c.cc, CalendarService_ListPatientAppointments_FullMethodName, in, opts)
}

func (c *calendarServiceClient) UpdatePaymentStatus(ctx context.Context, in *UpdatePaymentStatusRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, CalendarService_UpdatePaymentStatus_FullMethodName, in, opts)
}

func (c *calendarServiceClient) ListDoctorAppointments(ctx context.Context, in *ListDoctorAppointmentsRequest, opts ...grpc.CallOption) (*ListDoctorAppointmentsResponse, error) {
	return invoke[ListDoctorAppointmentsResponse](ctx, c.cc, CalendarService_ListDoctorAppointments_FullMethodName, in, opts)
}

func (c *calendarServiceClient) ListAppointmentEvents(ctx context.Context, in *ListAppointmentEventsRequest, opts ...grpc.CallOption) (*ListAppointmentEventsResponse, error) {
	return invoke[ListAppointmentEventsResponse](ctx, c.cc, CalendarService_ListAppointmentEvents_FullMethodName, in, opts)
}
