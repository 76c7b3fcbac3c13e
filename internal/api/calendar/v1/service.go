package calendarv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "calendar.v1.CalendarService"

const (
	CalendarService_ListDoctors_FullMethodName             = "/" + ServiceName + "/ListDoctors"
	CalendarService_GetDoctor_FullMethodName               = "/" + ServiceName + "/GetDoctor"
	CalendarService_CreateDoctor_FullMethodName            = "/" + ServiceName + "/CreateDoctor"
	CalendarService_UpdateSchedule_FullMethodName          = "/" + ServiceName + "/UpdateSchedule"
	CalendarService_ListAvailableSlots_FullMethodName      = "/" + ServiceName + "/ListAvailableSlots"
	CalendarService_CheckDate_FullMethodName               = "/" + ServiceName + "/CheckDate"
	CalendarService_ReserveSlot_FullMethodName             = "/" + ServiceName + "/ReserveSlot"
	CalendarService_CancelAppointment_FullMethodName       = "/" + ServiceName + "/CancelAppointment"
	CalendarService_CompleteAppointment_FullMethodName     = "/" + ServiceName + "/CompleteAppointment"
	CalendarService_GetAppointment_FullMethodName          = "/" + ServiceName + "/GetAppointment"
	CalendarService_ListPatientAppointments_FullMethodName = "/" + ServiceName + "/ListPatientAppointments"
	CalendarService_UpdatePaymentStatus_FullMethodName     = "/" + ServiceName + "/UpdatePaymentStatus"
	CalendarService_ListDoctorAppointments_FullMethodName  = "/" + ServiceName + "/ListDoctorAppointments"
	CalendarService_ListAppointmentEvents_FullMethodName   = "/" + ServiceName + "/ListAppointmentEvents"
	CalendarService_SetDoctorVerification_FullMethodName   = "/" + ServiceName + "/SetDoctorVerification"
)

// CalendarServiceServer — серверная сторона сервиса записи.
type CalendarServiceServer interface {
	ListDoctors(context.Context, *ListDoctorsRequest) (*ListDoctorsResponse, error)
	GetDoctor(context.Context, *GetDoctorRequest) (*DoctorResponse, error)
	CreateDoctor(context.Context, *CreateDoctorRequest) (*DoctorResponse, error)
	UpdateSchedule(context.Context, *UpdateScheduleRequest) (*DoctorResponse, error)
	SetDoctorVerification(context.Context, *SetDoctorVerificationRequest) (*DoctorResponse, error)
	ListAvailableSlots(context.Context, *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error)
	CheckDate(context.Context, *CheckDateRequest) (*CheckDateResponse, error)
	ReserveSlot(context.Context, *ReserveSlotRequest) (*AppointmentResponse, error)
	CancelAppointment(context.Context, *CancelAppointmentRequest) (*AppointmentResponse, error)
	CompleteAppointment(context.Context, *CompleteAppointmentRequest) (*AppointmentResponse, error)
	GetAppointment(context.Context, *GetAppointmentRequest) (*AppointmentResponse, error)
	ListPatientAppointments(context.Context, *ListPatientAppointmentsRequest) (*ListPatientAppointmentsResponse, error)
	UpdatePaymentStatus(context.Context, *UpdatePaymentStatusRequest) (*AppointmentResponse, error)
	ListDoctorAppointments(context.Context, *ListDoctorAppointmentsRequest) (*ListDoctorAppointmentsResponse, error)
	ListAppointmentEvents(context.Context, *ListAppointmentEventsRequest) (*ListAppointmentEventsResponse, error)
}

// UnimplementedCalendarServiceServer отвечает Unimplemented на все методы.
type UnimplementedCalendarServiceServer struct{}

func (UnimplementedCalendarServiceServer) ListDoctors(context.Context, *ListDoctorsRequest) (*ListDoctorsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListDoctors not implemented")
}
func (UnimplementedCalendarServiceServer) GetDoctor(context.Context, *GetDoctorRequest) (*DoctorResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDoctor not implemented")
}
func (UnimplementedCalendarServiceServer) CreateDoctor(context.Context, *CreateDoctorRequest) (*DoctorResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateDoctor not implemented")
}
func (UnimplementedCalendarServiceServer) UpdateSchedule(context.Context, *UpdateScheduleRequest) (*DoctorResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateSchedule not implemented")
}
func (UnimplementedCalendarServiceServer) SetDoctorVerification(context.Context, *SetDoctorVerificationRequest) (*DoctorResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetDoctorVerification not implemented")
}
func (UnimplementedCalendarServiceServer) ListAvailableSlots(context.Context, *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAvailableSlots not implemented")
}
func (UnimplementedCalendarServiceServer) CheckDate(context.Context, *CheckDateRequest) (*CheckDateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckDate not implemented")
}
func (UnimplementedCalendarServiceServer) ReserveSlot(context.Context, *ReserveSlotRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReserveSlot not implemented")
}
func (UnimplementedCalendarServiceServer) CancelAppointment(context.Context, *CancelAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelAppointment not implemented")
}
func (UnimplementedCalendarServiceServer) CompleteAppointment(context.Context, *CompleteAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteAppointment not implemented")
}
func (UnimplementedCalendarServiceServer) GetAppointment(context.Context, *GetAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAppointment not implemented")
}
func (UnimplementedCalendarServiceServer) ListPatientAppointments(context.Context, *ListPatientAppointmentsRequest) (*ListPatientAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPatientAppointments not implemented")
}
func (UnimplementedCalendarServiceServer) UpdatePaymentStatus(context.Context, *UpdatePaymentStatusRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdatePaymentStatus not implemented")
}
func (UnimplementedCalendarServiceServer) ListDoctorAppointments(context.Context, *ListDoctorAppointmentsRequest) (*ListDoctorAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListDoctorAppointments not implemented")
}
func (UnimplementedCalendarServiceServer) ListAppointmentEvents(context.Context, *ListAppointmentEventsRequest) (*ListAppointmentEventsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAppointmentEvents not implemented")
}

func RegisterCalendarServiceServer(s grpc.ServiceRegistrar, srv CalendarServiceServer) {
	s.RegisterService(&CalendarService_ServiceDesc, srv)
}

// unary собирает обработчик метода: декодирование запроса, перехватчики, вызов реализации.
func unary[Req, Resp any](fullMethod string, call func(CalendarServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CalendarServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CalendarServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var CalendarService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalendarServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListDoctors", Handler: unary(CalendarService_ListDoctors_FullMethodName, CalendarServiceServer.ListDoctors)},
		{MethodName: "GetDoctor", Handler: unary(CalendarService_GetDoctor_FullMethodName, CalendarServiceServer.GetDoctor)},
		{MethodName: "CreateDoctor", Handler: unary(CalendarService_CreateDoctor_FullMethodName, CalendarServiceServer.CreateDoctor)},
		{MethodName: "UpdateSchedule", Handler: unary(CalendarService_UpdateSchedule_FullMethodName, CalendarServiceServer.UpdateSchedule)},
		{MethodName: "SetDoctorVerification", Handler: unary(CalendarService_SetDoctorVerification_FullMethodName, CalendarServiceServer.SetDoctorVerification)},
		{MethodName: "ListAvailableSlots", Handler: unary(CalendarService_ListAvailableSlots_FullMethodName, CalendarServiceServer.ListAvailableSlots)},
		{MethodName: "CheckDate", Handler: unary(CalendarService_CheckDate_FullMethodName, CalendarServiceServer.CheckDate)},
		{MethodName: "ReserveSlot", Handler: unary(CalendarService_ReserveSlot_FullMethodName, CalendarServiceServer.ReserveSlot)},
		{MethodName: "CancelAppointment", Handler: unary(CalendarService_CancelAppointment_FullMethodName, CalendarServiceServer.CancelAppointment)},
		{MethodName: "CompleteAppointment", Handler: unary(CalendarService_CompleteAppointment_FullMethodName, CalendarServiceServer.CompleteAppointment)},
		{MethodName: "GetAppointment", Handler: unary(CalendarService_GetAppointment_FullMethodName, CalendarServiceServer.GetAppointment)},
		{MethodName: "ListPatientAppointments", Handler: unary(CalendarService_ListPatientAppointments_FullMethodName, CalendarServiceServer.ListPatientAppointments)},
		{MethodName: "UpdatePaymentStatus", Handler: unary(CalendarService_UpdatePaymentStatus_FullMethodName, CalendarServiceServer.UpdatePaymentStatus)},
		{MethodName: "ListDoctorAppointments", Handler: unary(CalendarService_ListDoctorAppointments_FullMethodName, CalendarServiceServer.ListDoctorAppointments)},
		{MethodName: "ListAppointmentEvents", Handler: unary(CalendarService_ListAppointmentEvents_FullMethodName, CalendarServiceServer.ListAppointmentEvents)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calendar/v1/calendar.json",
}
